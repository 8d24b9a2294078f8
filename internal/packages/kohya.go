package packages

import (
	"context"
	"path/filepath"

	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/pyenv"
	"github.com/atelier-tools/atelier/internal/settings"
)

var kohyaMeta = Metadata{
	Type:          TypeKohya,
	DisplayName:   "Kohya's GUI",
	Repo:          "bmaltais/kohya_ss",
	RepoURL:       "https://github.com/bmaltais/kohya_ss.git",
	DefaultBranch: "master",
	License:       "Apache-2.0",
	Difficulty:    DifficultyAdvanced,
	Prerequisites: []string{"git", "python3"},
	StartupMarker: "Running on local URL",
	Accelerators:  []Accelerator{AccelCUDA, AccelCPU},
	LaunchOptions: []LaunchOption{
		{Name: "host", Kind: OptionString, Default: "127.0.0.1", Flags: []string{"--listen {value}"}},
		{Name: "port", Kind: OptionInt, Default: "7860", Flags: []string{"--server_port {value}"}},
		{Name: "headless", Kind: OptionBool, Default: "false", Flags: []string{"--headless"}},
		{Name: "language", Kind: OptionString, Flags: []string{"--language {value}"}},
	},
	SharedFolders: map[FolderKind][]string{
		FolderCheckpoints: {"models"},
	},
	SharedOutputs:          []string{"outputs"},
	SharedFolderStrategies: []settings.SharedFolderStrategy{settings.StrategyConfig},
}

type kohya struct {
	*GitBase
}

func newKohya(deps Deps) *kohya {
	return &kohya{NewGitBase(kohyaMeta, deps)}
}

func (k *kohya) Install(ctx context.Context, req InstallRequest) (string, error) {
	ref, version, err := k.ResolveVersion(ctx, req.Version)
	if err != nil {
		return "", err
	}

	req.Reporter.Send(5, "Cloning Kohya's GUI")
	if err := k.Clone(ctx, req.InstallPath, ref, nil); err != nil {
		return "", err
	}

	req.Reporter.Send(30, "Creating virtual environment")
	venv := k.venvFor(req.InstallPath, nil)
	if err := venv.Create(ctx); err != nil {
		return "", err
	}

	req.Reporter.Send(40, "Installing requirements")
	if err := venv.InstallRequirements(ctx, "requirements.txt", pipObserver(req.Reporter)); err != nil {
		return "", err
	}
	return version, nil
}

func (k *kohya) Update(ctx context.Context, req UpdateRequest) (string, error) {
	version, err := k.UpdateSource(ctx, req)
	if err != nil {
		return "", err
	}
	venv := k.venvFor(req.Installed.InstallPath, nil)
	if err := venv.InstallRequirements(ctx, "requirements.txt", pipObserver(req.Reporter)); err != nil {
		return "", err
	}
	return version, nil
}

// Run launches the trainer GUI. Parts of the GUI shell out to Tkinter
// dialogs, so the venv is built with the base interpreter's Tcl/Tk
// library paths queried up front; a failed query degrades to the static
// platform defaults.
func (k *kohya) Run(ctx context.Context, req RunRequest) (*process.Handle, error) {
	args, err := RenderArgs(k.meta.LaunchOptions, req.LaunchValues)
	if err != nil {
		return nil, err
	}
	venv := pyenv.NewRunnerWithQueriedLibs(ctx, pyenv.Options{
		VenvPath:            filepath.Join(req.InstallPath, venvDirName),
		WorkingDir:          req.InstallPath,
		InjectDefaultTkLibs: true,
		Platform:            k.deps.Platform,
		Runner:              k.deps.Runner,
		Logger:              k.deps.Logger,
	})
	return process.Start(process.StartSpec{
		Executable:   venv.PythonPath(),
		Args:         append([]string{"kohya_gui.py"}, args...),
		WorkingDir:   req.InstallPath,
		Env:          venv.Environ(),
		OnOutputLine: k.outputObserver(req),
		Logger:       req.Logger,
	})
}

var _ Adapter = (*kohya)(nil)
