package packages

import (
	"context"
	"fmt"

	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/settings"
)

var comfyUIMeta = Metadata{
	Type:          TypeComfyUI,
	DisplayName:   "ComfyUI",
	Repo:          "comfyanonymous/ComfyUI",
	RepoURL:       "https://github.com/comfyanonymous/ComfyUI.git",
	DefaultBranch: "master",
	License:       "GPL-3.0",
	Difficulty:    DifficultySimple,
	Prerequisites: []string{"git", "python3"},
	StartupMarker: "To see the GUI go to",
	Accelerators:  []Accelerator{AccelCUDA, AccelROCm, AccelMPS, AccelCPU},
	LaunchOptions: []LaunchOption{
		{Name: "host", Kind: OptionString, Default: "127.0.0.1", Flags: []string{"--listen {value}"}},
		{Name: "port", Kind: OptionInt, Default: "8188", Flags: []string{"--port {value}"}},
		{Name: "auto-launch", Kind: OptionBool, Default: "false", Flags: []string{"--auto-launch", "--disable-auto-launch"}},
		{Name: "preview-method", Kind: OptionString, Flags: []string{"--preview-method {value}"}},
	},
	SharedFolders: map[FolderKind][]string{
		FolderCheckpoints: {"models/checkpoints"},
		FolderDiffusers:   {"models/diffusers"},
		FolderLora:        {"models/loras"},
		FolderVAE:         {"models/vae"},
		FolderControlNet:  {"models/controlnet"},
		FolderEmbeddings:  {"models/embeddings"},
		FolderUpscalers:   {"models/upscale_models"},
		FolderCLIP:        {"models/clip"},
	},
	SharedOutputs:          []string{"output"},
	SharedFolderStrategies: []settings.SharedFolderStrategy{settings.StrategyConfig, settings.StrategySymlink},
}

type comfyUI struct {
	*GitBase
}

func newComfyUI(deps Deps) *comfyUI {
	return &comfyUI{NewGitBase(comfyUIMeta, deps)}
}

func (c *comfyUI) Install(ctx context.Context, req InstallRequest) (string, error) {
	ref, version, err := c.ResolveVersion(ctx, req.Version)
	if err != nil {
		return "", err
	}
	accel := defaultAccelerator(c.meta, req.Accelerator)

	req.Reporter.Send(5, "Cloning ComfyUI")
	if err := c.Clone(ctx, req.InstallPath, ref, nil); err != nil {
		return "", err
	}

	req.Reporter.Send(25, "Creating virtual environment")
	venv := c.venvFor(req.InstallPath, nil)
	if err := venv.Create(ctx); err != nil {
		return "", err
	}

	req.Reporter.Send(35, fmt.Sprintf("Installing torch (%s)", accel))
	if err := venv.PipInstall(ctx, pipObserver(req.Reporter), accel.torchInstallArgs()...); err != nil {
		return "", err
	}

	req.Reporter.Send(75, "Installing requirements")
	if err := venv.InstallRequirements(ctx, "requirements.txt", pipObserver(req.Reporter)); err != nil {
		return "", err
	}
	return version, nil
}

func (c *comfyUI) Update(ctx context.Context, req UpdateRequest) (string, error) {
	version, err := c.UpdateSource(ctx, req)
	if err != nil {
		return "", err
	}
	venv := c.venvFor(req.Installed.InstallPath, nil)
	if err := venv.InstallRequirements(ctx, "requirements.txt", pipObserver(req.Reporter)); err != nil {
		return "", err
	}
	return version, nil
}

func (c *comfyUI) Run(ctx context.Context, req RunRequest) (*process.Handle, error) {
	return c.launchPython(req, "main.py", nil)
}

var _ Adapter = (*comfyUI)(nil)
