//go:build integration

package integration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/atelier-tools/atelier/internal/orchestrator"
	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/platform"
	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/progress"
	"github.com/atelier-tools/atelier/internal/release"
	"github.com/atelier-tools/atelier/internal/settings"
	"github.com/atelier-tools/atelier/internal/sharedfolders"
)

// testEnv holds the isolated directories one lifecycle test runs in.
type testEnv struct {
	HomeDir     string // ATELIER_HOME — config, registry, check cache
	PackagesDir string // ATELIER_PACKAGES — install roots
	LibraryDir  string // ATELIER_LIBRARY — shared model library
	Orch        *orchestrator.Orchestrator
	Runner      *process.MockRunner
}

// setupTestEnv sandboxes every atelier path under temp directories and
// wires an orchestrator whose subprocesses are faked, so the full
// lifecycle runs without git, python, or the network.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:     t.TempDir(),
		PackagesDir: t.TempDir(),
		LibraryDir:  t.TempDir(),
	}
	t.Setenv("ATELIER_HOME", env.HomeDir)
	t.Setenv("ATELIER_PACKAGES", env.PackagesDir)
	t.Setenv("ATELIER_LIBRARY", env.LibraryDir)

	env.Runner = &process.MockRunner{
		RunFunc: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
			if len(args) >= 2 && args[0] == "remote" && args[1] == "get-url" {
				return []byte("https://github.com/comfyanonymous/ComfyUI.git\n"), nil
			}
			if len(args) >= 1 && args[0] == "rev-parse" {
				return []byte("aaaa111122223333444455556666777788889999\n"), nil
			}
			if len(args) >= 1 && args[0] == "ls-remote" {
				return []byte("bbbb111122223333444455556666777788889999\trefs/heads/master\n"), nil
			}
			return nil, nil
		},
		RunStreamingFunc: func(ctx context.Context, dir string, onLine func(string), name string, args ...string) error {
			return nil
		},
	}

	hub := progress.NewHub(0)
	t.Cleanup(hub.Close)

	env.Orch = orchestrator.New(orchestrator.Options{
		Store: settings.NewFileStore(filepath.Join(env.HomeDir, "packages.json")),
		Hub:   hub,
		Deps: packages.Deps{
			Runner:   env.Runner,
			Platform: platform.Linux,
			Logger:   zerolog.Nop(),
		},
		Linker: &sharedfolders.Linker{
			LibraryDir: env.LibraryDir,
			OutputsDir: filepath.Join(env.LibraryDir, "outputs"),
			Platform:   platform.Linux,
			Logger:     zerolog.Nop(),
		},
		Cache:  release.NewCheckCache(env.HomeDir),
		Logger: zerolog.Nop(),
	})
	return env
}
