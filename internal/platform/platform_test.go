package platform

import (
	"runtime"
	"testing"
)

func TestDetect(t *testing.T) {
	os, err := Detect()
	// The test suite only runs on supported platforms, so Detect must succeed.
	if err != nil {
		t.Fatalf("Detect failed on %s: %v", runtime.GOOS, err)
	}
	if os.String() != runtime.GOOS {
		t.Errorf("Detect = %s, want %s", os, runtime.GOOS)
	}
}

func TestOSString(t *testing.T) {
	tests := []struct {
		os   OS
		want string
	}{
		{Windows, "windows"},
		{Linux, "linux"},
		{Darwin, "darwin"},
		{OS(42), "OS(42)"},
	}

	for _, tt := range tests {
		if got := tt.os.String(); got != tt.want {
			t.Errorf("OS(%d).String() = %q, want %q", int(tt.os), got, tt.want)
		}
	}
}
