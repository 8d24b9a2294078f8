package platform

import (
	"fmt"
	"runtime"
)

// OS is the enumerated platform tag. The package orchestration engine
// supports exactly three platforms; every switch over OS must handle all
// three and nothing else.
type OS int

const (
	// Windows is the Windows platform tag.
	Windows OS = iota
	// Linux is the Linux platform tag.
	Linux
	// Darwin is the macOS platform tag.
	Darwin
)

// ErrUnsupportedPlatform is returned by Detect for any GOOS outside the
// supported set. It is a configuration error: callers should fail at
// startup rather than carry an invalid tag into later dispatch.
var ErrUnsupportedPlatform = fmt.Errorf("unsupported platform %q: supported platforms are windows, linux, and darwin", runtime.GOOS)

// Detect maps runtime.GOOS onto the platform tag.
func Detect() (OS, error) {
	switch runtime.GOOS {
	case "windows":
		return Windows, nil
	case "linux":
		return Linux, nil
	case "darwin":
		return Darwin, nil
	default:
		return 0, ErrUnsupportedPlatform
	}
}

// String returns the GOOS-style name of the platform tag.
func (o OS) String() string {
	switch o {
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	default:
		return fmt.Sprintf("OS(%d)", int(o))
	}
}
