package packages

import (
	"context"
	"fmt"

	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/settings"
)

var sdWebUIMeta = Metadata{
	Type:          TypeSDWebUI,
	DisplayName:   "Stable Diffusion WebUI",
	Repo:          "AUTOMATIC1111/stable-diffusion-webui",
	RepoURL:       "https://github.com/AUTOMATIC1111/stable-diffusion-webui.git",
	DefaultBranch: "master",
	License:       "AGPL-3.0",
	Difficulty:    DifficultyIntermediate,
	Prerequisites: []string{"git", "python3"},
	StartupMarker: "Running on local URL",
	Accelerators:  []Accelerator{AccelCUDA, AccelROCm, AccelMPS, AccelCPU},
	LaunchOptions: []LaunchOption{
		{Name: "host", Kind: OptionString, Default: "127.0.0.1", Flags: []string{"--server-name {value}"}},
		{Name: "port", Kind: OptionInt, Default: "7860", Flags: []string{"--port {value}"}},
		{Name: "xformers", Kind: OptionBool, Default: "false", Flags: []string{"--xformers"}},
		{Name: "api", Kind: OptionBool, Default: "false", Flags: []string{"--api"}},
		{Name: "medvram", Kind: OptionBool, Default: "false", Flags: []string{"--medvram"}},
	},
	SharedFolders: map[FolderKind][]string{
		FolderCheckpoints: {"models/Stable-diffusion"},
		FolderLora:        {"models/Lora"},
		FolderVAE:         {"models/VAE"},
		FolderControlNet:  {"models/ControlNet"},
		FolderEmbeddings:  {"embeddings"},
		FolderUpscalers:   {"models/ESRGAN"},
		FolderCLIP:        {"models/CLIP"},
	},
	SharedOutputs:          []string{"outputs"},
	SharedFolderStrategies: []settings.SharedFolderStrategy{settings.StrategySymlink},
}

type sdWebUI struct {
	*GitBase
}

func newSDWebUI(deps Deps) *sdWebUI {
	return &sdWebUI{NewGitBase(sdWebUIMeta, deps)}
}

func (s *sdWebUI) Install(ctx context.Context, req InstallRequest) (string, error) {
	ref, version, err := s.ResolveVersion(ctx, req.Version)
	if err != nil {
		return "", err
	}
	accel := defaultAccelerator(s.meta, req.Accelerator)

	req.Reporter.Send(5, "Cloning Stable Diffusion WebUI")
	if err := s.Clone(ctx, req.InstallPath, ref, nil); err != nil {
		return "", err
	}

	req.Reporter.Send(25, "Creating virtual environment")
	venv := s.venvFor(req.InstallPath, nil)
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

func (s *sdWebUI) Update(ctx context.Context, req UpdateRequest) (string, error) {
	version, err := s.UpdateSource(ctx, req)
	if err != nil {
		return "", err
	}
	venv := s.venvFor(req.Installed.InstallPath, nil)
	if err := venv.InstallRequirements(ctx, "requirements_versions.txt", pipObserver(req.Reporter)); err != nil {
		return "", err
	}
	return version, nil
}

func (s *sdWebUI) Run(ctx context.Context, req RunRequest) (*process.Handle, error) {
	// launch.py performs the repo's own dependency checks before handing
	// off to webui.py; skipping the install step keeps startup fast.
	return s.launchPython(req, "launch.py", map[string]string{
		"SKIP_INSTALL": "1",
	})
}

var _ Adapter = (*sdWebUI)(nil)
