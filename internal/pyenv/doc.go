// Package pyenv provisions and runs isolated Python virtual environments
// for installed packages. A Venv is a handle bound to a venv root path;
// creating the handle never touches disk. Interpreter and library paths are
// dispatched over exactly three platforms (Windows, Linux, macOS) — the tag
// is validated at startup, so dispatch never falls back. The environment
// overlay merge order is significant: base, then explicit extras, then
// optional Tcl/Tk injection, then override extras, later entries winning on
// key collision.
package pyenv
