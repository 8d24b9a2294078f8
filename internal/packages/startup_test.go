package packages

import "testing"

func TestExtractURL(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Starting webserver at http://127.0.0.1:7801", "http://127.0.0.1:7801"},
		{"Running on local URL:  http://0.0.0.0:7860", "http://0.0.0.0:7860"},
		{"To see the GUI go to: https://myhost.local:8188/ui", "https://myhost.local:8188"},
		{"no url in here", ""},
		{"http without port http://example.com/path", ""},
	}

	for _, tt := range tests {
		if got := ExtractURL(tt.line); got != tt.want {
			t.Errorf("ExtractURL(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestStartupWatcherSignalsOnce(t *testing.T) {
	var urls []string
	w := &StartupWatcher{
		Marker:  "Starting webserver",
		OnReady: func(url string) { urls = append(urls, url) },
	}

	w.Observe("loading models")
	w.Observe("Starting webserver at http://127.0.0.1:7801")
	w.Observe("Starting webserver at http://127.0.0.1:9999")

	if len(urls) != 1 {
		t.Fatalf("OnReady fired %d times, want 1", len(urls))
	}
	if urls[0] != "http://127.0.0.1:7801" {
		t.Errorf("url = %q, want %q", urls[0], "http://127.0.0.1:7801")
	}
}

func TestStartupWatcherNoMarkerNoSignal(t *testing.T) {
	fired := false
	w := &StartupWatcher{
		Marker:  "App started successful",
		OnReady: func(string) { fired = true },
	}

	// The line carries a URL but not the marker, so no signal fires.
	w.Observe("listening on http://127.0.0.1:7865")
	if fired {
		t.Error("OnReady fired without the startup marker")
	}
}

func TestStartupWatcherMarkerWithoutURL(t *testing.T) {
	var got string
	seen := false
	w := &StartupWatcher{
		Marker:  "App started successful",
		OnReady: func(url string) { got, seen = url, true },
	}

	w.Observe("App started successful, see console for details")
	if !seen {
		t.Fatal("OnReady did not fire on the marker line")
	}
	if got != "" {
		t.Errorf("url = %q, want empty when extraction fails", got)
	}
}
