// Package packages defines the adapter layer: one adapter per supported
// third-party application, each describing its metadata (repository,
// launch options, shared model folders) and implementing the lifecycle
// operations install, update, run, and update detection. Adapters built on
// a git repository embed GitBase, which supplies clone/checkout/pull and
// remote-head comparison through the prerequisite runner.
package packages
