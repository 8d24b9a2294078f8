// Package cli implements the atelier command tree: install, update,
// launch, uninstall, list, check, doctor, config, and version.
package cli
