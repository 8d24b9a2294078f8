package pyenv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atelier-tools/atelier/internal/platform"
	"github.com/atelier-tools/atelier/internal/process"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEnvPrecedence(t *testing.T) {
	// Override wins over toolkit injection, which wins over extras.
	got := mergeEnv(nil,
		map[string]string{"A": "1"},
		map[string]string{"A": "2", "B": "2"},
		map[string]string{"A": "3"},
	)

	a, ok := getEnv(got, "A")
	require.True(t, ok)
	assert.Equal(t, "3", a)

	b, ok := getEnv(got, "B")
	require.True(t, ok)
	assert.Equal(t, "2", b)
}

func TestMergeEnvDoesNotMutateBase(t *testing.T) {
	base := []string{"A=base"}
	_ = mergeEnv(base, map[string]string{"A": "new"})
	assert.Equal(t, []string{"A=base"}, base)
}

func TestPythonPathDispatch(t *testing.T) {
	tests := []struct {
		os   platform.OS
		want string
	}{
		{platform.Windows, filepath.Join("venv", "Scripts", "python.exe")},
		{platform.Linux, filepath.Join("venv", "bin", "python3")},
		{platform.Darwin, filepath.Join("venv", "bin", "python3")},
	}

	for _, tt := range tests {
		t.Run(tt.os.String(), func(t *testing.T) {
			v := NewRunner(Options{VenvPath: "venv", Platform: tt.os, Runner: &process.MockRunner{}})
			assert.Equal(t, tt.want, v.PythonPath())
		})
	}
}

func TestCreateInvokesBaseInterpreter(t *testing.T) {
	mock := &process.MockRunner{
		RunFunc: func(_ context.Context, _, name string, args ...string) ([]byte, error) {
			return nil, nil
		},
	}
	v := NewRunner(Options{
		VenvPath: filepath.Join(t.TempDir(), "venv"),
		Platform: platform.Linux,
		Runner:   mock,
	})

	require.NoError(t, v.Create(context.Background()))

	calls := mock.GetCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "python3", calls[0].Name)
	assert.Equal(t, []string{"-m", "venv", v.Root()}, calls[0].Args)
}

func TestCreateIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	venvPath := filepath.Join(tmp, "venv")

	// Fake an existing venv interpreter.
	require.NoError(t, mkFile(t, filepath.Join(venvPath, "bin", "python3")))

	mock := &process.MockRunner{} // any call would panic
	v := NewRunner(Options{VenvPath: venvPath, Platform: platform.Linux, Runner: mock})

	require.NoError(t, v.Create(context.Background()))
	assert.Empty(t, mock.GetCalls())
}

func TestEnvironOverlayOrder(t *testing.T) {
	v := NewRunner(Options{
		VenvPath:            "/opt/pkg/venv",
		Platform:            platform.Linux,
		Runner:              &process.MockRunner{},
		Env:                 map[string]string{"TCL_LIBRARY": "extras", "HOST": "127.0.0.1"},
		OverrideEnv:         map[string]string{"TCL_LIBRARY": "override"},
		InjectDefaultTkLibs: true,
	})

	env := v.Environ()

	virtualEnv, ok := getEnv(env, "VIRTUAL_ENV")
	require.True(t, ok)
	assert.Equal(t, "/opt/pkg/venv", virtualEnv)

	path, ok := getEnv(env, "PATH")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(path, filepath.Join("/opt/pkg/venv", "bin")), "venv bin must lead PATH")

	// Override wins over both the explicit extras and the injected toolkit.
	tcl, ok := getEnv(env, "TCL_LIBRARY")
	require.True(t, ok)
	assert.Equal(t, "override", tcl)

	// Toolkit injection wins over nothing here but must be present.
	tk, ok := getEnv(env, "TK_LIBRARY")
	require.True(t, ok)
	assert.Equal(t, DefaultTkLibs(platform.Linux, "python3").TkLibrary, tk)

	host, ok := getEnv(env, "HOST")
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1", host)
}

func TestQueryTkLibsParsesJSON(t *testing.T) {
	mock := &process.MockRunner{
		RunFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
			return []byte("some warning\n{\"tcl_library\": \"/opt/tcl8.6\", \"tk_library\": \"/opt/tk8.6\"}\n"), nil
		},
	}

	libs, err := QueryTkLibs(context.Background(), mock, "python3")
	require.NoError(t, err)
	assert.Equal(t, "/opt/tcl8.6", libs.TclLibrary)
	assert.Equal(t, "/opt/tk8.6", libs.TkLibrary)
}

func TestQueryTkLibsNoJSON(t *testing.T) {
	mock := &process.MockRunner{
		RunFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
			return []byte("ModuleNotFoundError: no module named tkinter"), nil
		},
	}

	_, err := QueryTkLibs(context.Background(), mock, "python3")
	assert.Error(t, err)
}

func TestNewRunnerWithQueriedLibsFailureIsNonFatal(t *testing.T) {
	mock := &process.MockRunner{
		RunFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
			return nil, errors.New("python exploded")
		},
	}

	v := NewRunnerWithQueriedLibs(context.Background(), Options{
		VenvPath:            "/opt/pkg/venv",
		Platform:            platform.Linux,
		Runner:              mock,
		InjectDefaultTkLibs: true,
		Logger:              zerolog.Nop(),
	})

	// The statically configured defaults survive the failed query.
	env := v.Environ()
	tcl, ok := getEnv(env, "TCL_LIBRARY")
	require.True(t, ok)
	assert.Equal(t, DefaultTkLibs(platform.Linux, "python3").TclLibrary, tcl)
}

func TestNewRunnerWithQueriedLibsMergesResult(t *testing.T) {
	mock := &process.MockRunner{
		RunFunc: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
			return []byte(`{"tcl_library": "/queried/tcl", "tk_library": "/queried/tk"}`), nil
		},
	}

	v := NewRunnerWithQueriedLibs(context.Background(), Options{
		VenvPath: "/opt/pkg/venv",
		Platform: platform.Linux,
		Runner:   mock,
		Logger:   zerolog.Nop(),
	})

	env := v.Environ()
	tcl, ok := getEnv(env, "TCL_LIBRARY")
	require.True(t, ok)
	assert.Equal(t, "/queried/tcl", tcl)
}

func mkFile(t *testing.T, path string) error {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, nil, 0644)
}
