// Package settings owns the installed-package registry: the persisted
// record of every package the orchestrator manages. All mutation goes
// through Store.Mutate, which applies a change function and commits the
// result atomically (temp file + rename), so readers never observe a
// half-written registry. The registry file can be validated against an
// embedded JSON schema, used by the doctor command.
package settings
