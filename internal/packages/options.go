package packages

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionKind is the value type of a launch option.
type OptionKind int

const (
	OptionString OptionKind = iota
	OptionBool
	OptionInt
	OptionPath
)

// valuePlaceholder marks where an option's value is interpolated into a
// flag template.
const valuePlaceholder = "{value}"

// LaunchOption defines one configurable launch argument. Flags holds one
// or more CLI flag templates: value-typed options interpolate their value
// into the first template's {value} placeholder; boolean options with two
// templates pick the first when true and the second when false.
type LaunchOption struct {
	Name    string
	Kind    OptionKind
	Default string
	Flags   []string
}

// RenderArgs converts launch option values into command-line tokens.
// Options absent from values fall back to their defaults; options that
// resolve to an empty value emit nothing. Value names not defined by any
// option are an error.
func RenderArgs(defs []LaunchOption, values map[string]string) ([]string, error) {
	known := make(map[string]bool, len(defs))
	for _, def := range defs {
		known[def.Name] = true
	}
	for name := range values {
		if !known[name] {
			return nil, fmt.Errorf("unknown launch option %q", name)
		}
	}

	var args []string
	for _, def := range defs {
		tokens, err := def.render(OptionValue(defs, values, def.Name))
		if err != nil {
			return nil, err
		}
		args = append(args, tokens...)
	}
	return args, nil
}

// OptionValue returns the effective value for one option: the user value
// if set, else the definition's default. Unknown names return "".
func OptionValue(defs []LaunchOption, values map[string]string, name string) string {
	for _, def := range defs {
		if def.Name != name {
			continue
		}
		if v, ok := values[name]; ok {
			return v
		}
		return def.Default
	}
	return ""
}

func (o LaunchOption) render(value string) ([]string, error) {
	if len(o.Flags) == 0 || value == "" {
		return nil, nil
	}

	if o.Kind == OptionBool {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("launch option %q: %w", o.Name, err)
		}
		if enabled {
			return strings.Fields(o.Flags[0]), nil
		}
		if len(o.Flags) > 1 {
			return strings.Fields(o.Flags[1]), nil
		}
		return nil, nil
	}

	if o.Kind == OptionInt {
		if _, err := strconv.Atoi(value); err != nil {
			return nil, fmt.Errorf("launch option %q: %w", o.Name, err)
		}
	}

	// Interpolate after splitting so values containing spaces stay one
	// token.
	tokens := strings.Fields(o.Flags[0])
	substituted := false
	for i, tok := range tokens {
		if strings.Contains(tok, valuePlaceholder) {
			tokens[i] = strings.ReplaceAll(tok, valuePlaceholder, value)
			substituted = true
		}
	}
	if !substituted {
		tokens = append(tokens, value)
	}
	return tokens, nil
}
