package pyenv

import "strings"

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// getEnv looks up a key in the env slice.
func getEnv(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return e[len(prefix):], true
		}
	}
	return "", false
}

// mergeEnv applies the overlay maps onto base in order. Later maps win on
// key collision, so override beats toolkit beats extras.
func mergeEnv(base []string, overlays ...map[string]string) []string {
	env := make([]string, len(base))
	copy(env, base)
	for _, overlay := range overlays {
		for k, v := range overlay {
			env = setEnv(env, k, v)
		}
	}
	return env
}
