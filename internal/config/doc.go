// Package config resolves the application's directories and user settings.
// App-level settings (central model library location, GitHub token, shutdown
// timeout) live in ~/.atelier/config.yaml and are read through Viper with
// ATELIER_* environment overrides. Path helpers centralize the on-disk
// layout: package install roots, the central model library, and the
// installed-package registry file.
package config
