// Package release resolves installable versions for packages (latest GitHub
// release, specific tag) and caches per-package update-check results so that
// repeated checks inside the rate-limit window cost no network I/O.
package release
