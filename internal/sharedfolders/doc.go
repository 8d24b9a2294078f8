// Package sharedfolders maps a package's model folders onto the central
// model library. Two real strategies exist: symlink, which links
// adapter-declared folders into the library, and config, which rewrites
// the package's own settings file to point its model-path fields at the
// library. Removal is always non-destructive: symlinks are deleted
// without touching their targets, and config fields are reset to the
// package defaults rather than deleting the file. A strategy the package
// does not support is a no-op, not an error.
package sharedfolders
