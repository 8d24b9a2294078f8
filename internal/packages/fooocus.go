package packages

import (
	"context"
	"fmt"

	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/settings"
)

var fooocusMeta = Metadata{
	Type:          TypeFooocus,
	DisplayName:   "Fooocus",
	Repo:          "lllyasviel/Fooocus",
	RepoURL:       "https://github.com/lllyasviel/Fooocus.git",
	DefaultBranch: "main",
	License:       "GPL-3.0",
	Difficulty:    DifficultySimple,
	Prerequisites: []string{"git", "python3"},
	StartupMarker: "App started successful",
	Accelerators:  []Accelerator{AccelCUDA, AccelMPS, AccelCPU},
	LaunchOptions: []LaunchOption{
		{Name: "host", Kind: OptionString, Default: "127.0.0.1", Flags: []string{"--listen {value}"}},
		{Name: "port", Kind: OptionInt, Default: "7865", Flags: []string{"--port {value}"}},
		{Name: "preset", Kind: OptionString, Flags: []string{"--preset {value}"}},
		{Name: "always-high-vram", Kind: OptionBool, Default: "false", Flags: []string{"--always-high-vram"}},
	},
	SharedFolders: map[FolderKind][]string{
		FolderCheckpoints: {"models/checkpoints"},
		FolderLora:        {"models/loras"},
		FolderVAE:         {"models/vae"},
		FolderControlNet:  {"models/controlnet"},
		FolderEmbeddings:  {"models/embeddings"},
		FolderUpscalers:   {"models/upscale_models"},
	},
	SharedOutputs:          []string{"outputs"},
	SharedFolderStrategies: []settings.SharedFolderStrategy{settings.StrategySymlink},
}

type fooocus struct {
	*GitBase
}

func newFooocus(deps Deps) *fooocus {
	return &fooocus{NewGitBase(fooocusMeta, deps)}
}

func (f *fooocus) Install(ctx context.Context, req InstallRequest) (string, error) {
	ref, version, err := f.ResolveVersion(ctx, req.Version)
	if err != nil {
		return "", err
	}
	accel := defaultAccelerator(f.meta, req.Accelerator)

	req.Reporter.Send(5, "Cloning Fooocus")
	if err := f.Clone(ctx, req.InstallPath, ref, nil); err != nil {
		return "", err
	}

	req.Reporter.Send(25, "Creating virtual environment")
	venv := f.venvFor(req.InstallPath, nil)
	if err := venv.Create(ctx); err != nil {
		return "", err
	}

	req.Reporter.Send(35, fmt.Sprintf("Installing torch (%s)", accel))
	if err := venv.PipInstall(ctx, pipObserver(req.Reporter), accel.torchInstallArgs()...); err != nil {
		return "", err
	}

	req.Reporter.Send(75, "Installing requirements")
	if err := venv.InstallRequirements(ctx, "requirements_versions.txt", pipObserver(req.Reporter)); err != nil {
		return "", err
	}
	return version, nil
}

func (f *fooocus) Update(ctx context.Context, req UpdateRequest) (string, error) {
	version, err := f.UpdateSource(ctx, req)
	if err != nil {
		return "", err
	}
	venv := f.venvFor(req.Installed.InstallPath, nil)
	if err := venv.InstallRequirements(ctx, "requirements_versions.txt", pipObserver(req.Reporter)); err != nil {
		return "", err
	}
	return version, nil
}

func (f *fooocus) Run(ctx context.Context, req RunRequest) (*process.Handle, error) {
	return f.launchPython(req, "launch.py", nil)
}

var _ Adapter = (*fooocus)(nil)
