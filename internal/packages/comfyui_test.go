package packages

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-tools/atelier/internal/platform"
	"github.com/atelier-tools/atelier/internal/process"
)

// installRunner accepts every invocation, so tests can assert on the
// recorded call sequence.
func installRunner() *process.MockRunner {
	return &process.MockRunner{
		RunFunc: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
			return nil, nil
		},
		RunStreamingFunc: func(ctx context.Context, dir string, onLine func(string), name string, args ...string) error {
			return nil
		},
	}
}

func TestComfyUIInstallSequence(t *testing.T) {
	runner := installRunner()
	adapter, err := New(TypeComfyUI, Deps{Runner: runner, Platform: platform.Linux, Logger: zerolog.Nop()})
	require.NoError(t, err)

	installPath := filepath.Join(t.TempDir(), "comfyui")
	version, err := adapter.Install(context.Background(), InstallRequest{
		InstallPath: installPath,
		Version:     VersionSpec{Branch: "master"},
		Accelerator: AccelCUDA,
	})
	require.NoError(t, err)
	assert.Equal(t, "master", version)

	calls := runner.GetCalls()
	require.Len(t, calls, 4)

	// Clone, venv creation, torch install, requirements install.
	assert.Equal(t, "git", calls[0].Name)
	assert.Equal(t, "clone", calls[0].Args[0])
	assert.Contains(t, calls[0].Args, comfyUIMeta.RepoURL)

	assert.Equal(t, "python3", calls[1].Name)
	assert.Equal(t, []string{"-m", "venv", filepath.Join(installPath, "venv")}, calls[1].Args)

	torch := strings.Join(calls[2].Args, " ")
	assert.Contains(t, torch, "pip install torch")
	assert.Contains(t, torch, AccelCUDA.TorchIndexURL())

	reqs := strings.Join(calls[3].Args, " ")
	assert.Contains(t, reqs, "-r requirements.txt")
}

func TestComfyUIInstallAbortsOnCloneFailure(t *testing.T) {
	runner := installRunner()
	runner.RunStreamingFunc = func(ctx context.Context, dir string, onLine func(string), name string, args ...string) error {
		return assert.AnError
	}
	adapter, err := New(TypeComfyUI, Deps{Runner: runner, Platform: platform.Linux, Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, err = adapter.Install(context.Background(), InstallRequest{
		InstallPath: filepath.Join(t.TempDir(), "comfyui"),
		Version:     VersionSpec{Branch: "master"},
	})
	require.Error(t, err)

	// Nothing beyond the failed clone runs.
	assert.Len(t, runner.GetCalls(), 1)
}

func TestComfyUIDefaultAccelerator(t *testing.T) {
	assert.Equal(t, AccelCUDA, defaultAccelerator(comfyUIMeta, ""))
	assert.Equal(t, AccelMPS, defaultAccelerator(comfyUIMeta, AccelMPS))
}
