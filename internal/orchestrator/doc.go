// Package orchestrator drives the package lifecycle: install, update,
// launch, uninstall, and update detection. It owns the per-package
// serialization guarantee (one mutating operation per package at a time,
// enforced in process), persists results through the settings store only
// after an operation fully succeeds, and streams every long-running step
// through the progress hub.
package orchestrator
