// Package progress carries structured progress reports from long-running
// package operations (install, update, launch, uninstall) to any number of
// observers. Delivery is fire-and-forget: each observer has its own buffered
// channel and emissions that would block are dropped, so a slow observer can
// never stall the operation producing the reports. A derived global signal
// aggregates a single percentage across all concurrently active operations.
package progress
