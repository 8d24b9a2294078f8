// Package platform provides the host platform tag used for interpreter and
// library path dispatch, plus cross-platform filesystem operations (symlink
// creation, permission management). Platform dispatch is exhaustive over
// Windows, Linux, and macOS: an unrecognized GOOS is a configuration error
// surfaced at startup, never a silent fallback.
package platform
