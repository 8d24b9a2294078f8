package packages

import (
	"path/filepath"

	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/progress"
	"github.com/atelier-tools/atelier/internal/pyenv"
)

// defaultAccelerator falls back to the adapter's preferred variant when
// the caller did not choose one.
func defaultAccelerator(meta Metadata, a Accelerator) Accelerator {
	if a != "" {
		return a
	}
	if len(meta.Accelerators) > 0 {
		return meta.Accelerators[0]
	}
	return AccelCPU
}

// pipObserver forwards dependency-install output lines as indeterminate
// progress messages.
func pipObserver(rep *progress.Reporter) func(string) {
	return func(line string) {
		rep.Indeterminate(line)
	}
}

// venvDirName is the venv directory created inside every Python install.
const venvDirName = "venv"

// venvFor returns the install's venv handle without touching disk.
func (g *GitBase) venvFor(installPath string, extraEnv map[string]string) *pyenv.Venv {
	return pyenv.NewRunner(pyenv.Options{
		VenvPath:   filepath.Join(installPath, venvDirName),
		WorkingDir: installPath,
		Env:        extraEnv,
		Platform:   g.deps.Platform,
		Runner:     g.deps.Runner,
		Logger:     g.deps.Logger,
	})
}

// outputObserver wires the startup watcher in front of the caller's output
// callback.
func (g *GitBase) outputObserver(req RunRequest) func(string) {
	watcher := &StartupWatcher{Marker: g.meta.StartupMarker, OnReady: req.OnReady}
	return func(line string) {
		watcher.Observe(line)
		if req.OnOutput != nil {
			req.OnOutput(line)
		}
	}
}

// launchPython spawns the install's venv interpreter on script with the
// rendered launch arguments and adapter environment overlay.
func (g *GitBase) launchPython(req RunRequest, script string, extraEnv map[string]string) (*process.Handle, error) {
	args, err := RenderArgs(g.meta.LaunchOptions, req.LaunchValues)
	if err != nil {
		return nil, err
	}
	venv := g.venvFor(req.InstallPath, extraEnv)
	return process.Start(process.StartSpec{
		Executable:   venv.PythonPath(),
		Args:         append([]string{script}, args...),
		WorkingDir:   req.InstallPath,
		Env:          venv.Environ(),
		OnOutputLine: g.outputObserver(req),
		Logger:       req.Logger,
	})
}
