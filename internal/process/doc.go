// Package process wraps external process execution for the package
// orchestration engine. Handle supervises a single long-lived subprocess
// (a package's web UI) with line-by-line output streaming, cancellable
// waits, and bounded graceful shutdown. Runner executes short-lived
// prerequisite binaries (git, python, dotnet) with captured output and is
// mockable for tests.
package process
