package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/atelier-tools/atelier/internal/config"
	"github.com/atelier-tools/atelier/internal/orchestrator"
	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/progress"
	"github.com/atelier-tools/atelier/internal/release"
	"github.com/atelier-tools/atelier/internal/settings"
	"github.com/atelier-tools/atelier/internal/sharedfolders"
)

// app bundles the orchestrator and its collaborators for one command
// invocation.
type app struct {
	orch *orchestrator.Orchestrator
	hub  *progress.Hub
}

// newApp wires the production dependency graph.
func newApp() (*app, error) {
	if err := config.EnsureLayout(); err != nil {
		return nil, err
	}

	registryPath, err := config.RegistryPath()
	if err != nil {
		return nil, err
	}
	libraryDir, err := config.LibraryDir()
	if err != nil {
		return nil, err
	}
	outputsDir, err := config.OutputsDir()
	if err != nil {
		return nil, err
	}

	log := newLogger()
	hub := progress.NewHub(0)

	orch := orchestrator.New(orchestrator.Options{
		Store: settings.NewFileStore(registryPath),
		Hub:   hub,
		Deps: packages.Deps{
			Runner:   process.NewExecRunner(),
			Resolver: release.NewResolver(release.WithToken(config.GitHubToken())),
			Platform: hostOS,
			Logger:   log,
		},
		Linker: &sharedfolders.Linker{
			LibraryDir: libraryDir,
			OutputsDir: outputsDir,
			Platform:   hostOS,
			Logger:     log,
		},
		Cache:           release.NewCheckCache(config.Dir()),
		ShutdownTimeout: config.ShutdownTimeout(),
		Logger:          log,
	})
	return &app{orch: orch, hub: hub}, nil
}

// Close tears down the progress hub.
func (a *app) Close() {
	a.hub.Close()
}

// printProgress streams progress messages to w until the returned stop
// func is called.
func (a *app) printProgress(w io.Writer) func() {
	reports, cancel := a.hub.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var lastMsg string
		for r := range reports {
			if r.Message == "" || r.Message == lastMsg {
				continue
			}
			lastMsg = r.Message
			if r.Failed {
				fmt.Fprintf(w, "  ✗ %s\n", r.Message)
				continue
			}
			if r.Indeterminate {
				fmt.Fprintf(w, "    %s\n", r.Message)
				continue
			}
			fmt.Fprintf(w, "  [%3.0f%%] %s\n", r.Percentage, r.Message)
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}
