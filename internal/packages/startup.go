package packages

import (
	"regexp"
	"strings"
	"sync"
)

// servedURLPattern extracts the URL a web package reports on startup.
var servedURLPattern = regexp.MustCompile(`(https?://)([^:\s]+):(\d+)`)

// ExtractURL returns the first served URL in line, or "" if none matches.
func ExtractURL(line string) string {
	return servedURLPattern.FindString(line)
}

// StartupWatcher scans output lines for an adapter's startup marker and
// signals readiness exactly once per run. Lines without the marker are
// never inspected for a URL.
type StartupWatcher struct {
	Marker  string
	OnReady func(url string)

	once sync.Once
}

// Observe feeds one output line to the watcher.
func (w *StartupWatcher) Observe(line string) {
	if w.Marker == "" || !strings.Contains(line, w.Marker) {
		return
	}
	w.once.Do(func() {
		if w.OnReady != nil {
			w.OnReady(ExtractURL(line))
		}
	})
}
