package orchestrator

import (
	"context"
	"fmt"

	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/progress"
)

// LaunchResult is returned once the package process has been spawned.
// Ready is signalled exactly once, when the startup marker appears in the
// process output, carrying the served URL (empty if none was extracted).
type LaunchResult struct {
	Package string
	Handle  *process.Handle
	Ready   <-chan string
}

// Launch starts an installed package. Launch-arg overrides are merged
// over the values persisted at install time. An update check runs first
// but is advisory only: its failure never blocks the launch.
func (o *Orchestrator) Launch(ctx context.Context, idOrName string, argOverrides map[string]string, onOutput func(string)) (*LaunchResult, error) {
	pkg, err := o.find(idOrName)
	if err != nil {
		return nil, err
	}
	adapter, err := o.adapterFor(pkg)
	if err != nil {
		return nil, err
	}

	if result := o.CheckForUpdates(ctx, pkg.ID); result.UpdateAvailable {
		o.log.Info().Str("package", pkg.DisplayName).Str("latest", result.LatestVersion).Msg("update available")
	}

	values := make(map[string]string, len(pkg.LaunchArgs)+len(argOverrides))
	for k, v := range pkg.LaunchArgs {
		values[k] = v
	}
	for k, v := range argOverrides {
		values[k] = v
	}

	rep := o.hub.Reporter(pkg.ID, progress.KindLaunch)
	rep.Indeterminate(fmt.Sprintf("Starting %s", pkg.DisplayName))

	ready := make(chan string, 1)
	handle, err := adapter.Run(ctx, packages.RunRequest{
		InstallPath:  pkg.InstallPath,
		LaunchValues: values,
		OnOutput:     onOutput,
		OnReady: func(url string) {
			ready <- url
			close(ready)
		},
		Logger: o.log,
	})
	if err != nil {
		rep.Fail(fmt.Sprintf("Starting %s failed: %v", pkg.DisplayName, err))
		rep.End()
		return nil, fmt.Errorf("launching %s: %w", pkg.DisplayName, err)
	}

	o.mu.Lock()
	o.running[pkg.ID] = handle
	o.mu.Unlock()

	rep.Done(fmt.Sprintf("%s started", pkg.DisplayName))
	return &LaunchResult{Package: pkg.ID, Handle: handle, Ready: ready}, nil
}

// Stop shuts down a running package gracefully, force-killing after the
// configured timeout. Stopping a package that is not running is a no-op.
func (o *Orchestrator) Stop(id string) {
	o.mu.Lock()
	handle := o.running[id]
	delete(o.running, id)
	o.mu.Unlock()

	if handle != nil {
		handle.Shutdown(o.shutdownTimeout)
	}
}

// StopAll shuts down every running package.
func (o *Orchestrator) StopAll() {
	o.mu.Lock()
	handles := make(map[string]*process.Handle, len(o.running))
	for id, h := range o.running {
		handles[id] = h
	}
	o.running = make(map[string]*process.Handle)
	o.mu.Unlock()

	for _, h := range handles {
		h.Shutdown(o.shutdownTimeout)
	}
}
