package packages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/settings"
)

var swarmUIMeta = Metadata{
	Type:          TypeSwarmUI,
	DisplayName:   "SwarmUI",
	Repo:          "mcmonkeyprojects/SwarmUI",
	RepoURL:       "https://github.com/mcmonkeyprojects/SwarmUI.git",
	DefaultBranch: "master",
	License:       "MIT",
	Difficulty:    DifficultyIntermediate,
	Prerequisites: []string{"git", "dotnet"},
	StartupMarker: "Starting webserver",
	Accelerators:  []Accelerator{AccelCUDA, AccelROCm, AccelCPU},
	LaunchOptions: []LaunchOption{
		{Name: "host", Kind: OptionString, Default: "127.0.0.1", Flags: []string{"--host {value}"}},
		{Name: "port", Kind: OptionInt, Default: "7801", Flags: []string{"--port {value}"}},
		{Name: "launch-mode", Kind: OptionString, Default: "none", Flags: []string{"--launch_mode {value}"}},
	},
	SharedFolders: map[FolderKind][]string{
		FolderCheckpoints: {"Models/Stable-Diffusion"},
		FolderLora:        {"Models/Lora"},
		FolderVAE:         {"Models/VAE"},
		FolderControlNet:  {"Models/controlnet"},
		FolderEmbeddings:  {"Models/Embeddings"},
		FolderUpscalers:   {"Models/upscale_models"},
		FolderCLIP:        {"Models/clip"},
	},
	SharedOutputs:          []string{"Output"},
	SharedFolderStrategies: []settings.SharedFolderStrategy{settings.StrategySymlink},
}

// buildOutputDir is where the compiled server lands, relative to the
// install root. Matches the project's own launch scripts.
const buildOutputDir = "src/bin/live_release"

// launchSettingsFile records the launch defaults written at install time,
// relative to the install root.
const launchSettingsFile = "Data/atelier-launch.yaml"

type swarmUI struct {
	*GitBase
}

func newSwarmUI(deps Deps) *swarmUI {
	return &swarmUI{NewGitBase(swarmUIMeta, deps)}
}

// launchSettings is the service definition persisted next to the install.
type launchSettings struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	LaunchMode string `yaml:"launch_mode"`
}

func (s *swarmUI) Install(ctx context.Context, req InstallRequest) (string, error) {
	ref, version, err := s.ResolveVersion(ctx, req.Version)
	if err != nil {
		return "", err
	}

	req.Reporter.Send(5, "Cloning SwarmUI")
	if err := s.Clone(ctx, req.InstallPath, ref, nil); err != nil {
		return "", err
	}

	req.Reporter.Send(30, "Building server")
	if err := s.build(ctx, req.InstallPath, pipObserver(req.Reporter)); err != nil {
		return "", err
	}

	req.Reporter.Send(90, "Writing launch settings")
	if err := s.writeLaunchSettings(req.InstallPath); err != nil {
		return "", err
	}
	return version, nil
}

func (s *swarmUI) build(ctx context.Context, installPath string, onLine func(string)) error {
	err := s.deps.Runner.RunStreaming(ctx, installPath, onLine,
		"dotnet", "build", "src/SwarmUI.csproj", "--configuration", "Release", "-o", buildOutputDir)
	if err != nil {
		return fmt.Errorf("building SwarmUI: %w", err)
	}
	return nil
}

// writeLaunchSettings persists the adapter's launch defaults so the server
// definition survives rebuilds. Skipped if the user already has one.
func (s *swarmUI) writeLaunchSettings(installPath string) error {
	path := filepath.Join(installPath, filepath.FromSlash(launchSettingsFile))
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	data, err := yaml.Marshal(launchSettings{
		Host:       OptionValue(s.meta.LaunchOptions, nil, "host"),
		Port:       OptionValue(s.meta.LaunchOptions, nil, "port"),
		LaunchMode: OptionValue(s.meta.LaunchOptions, nil, "launch-mode"),
	})
	if err != nil {
		return fmt.Errorf("marshaling launch settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing launch settings: %w", err)
	}
	return nil
}

func (s *swarmUI) Update(ctx context.Context, req UpdateRequest) (string, error) {
	version, err := s.UpdateSource(ctx, req)
	if err != nil {
		return "", err
	}
	if err := s.build(ctx, req.Installed.InstallPath, pipObserver(req.Reporter)); err != nil {
		return "", err
	}
	return version, nil
}

// Run starts the compiled server under the dotnet host. The listen
// address is pinned through the environment as well as the CLI so
// embedded backends inherit it.
func (s *swarmUI) Run(ctx context.Context, req RunRequest) (*process.Handle, error) {
	args, err := RenderArgs(s.meta.LaunchOptions, req.LaunchValues)
	if err != nil {
		return nil, err
	}
	host := OptionValue(s.meta.LaunchOptions, req.LaunchValues, "host")
	port := OptionValue(s.meta.LaunchOptions, req.LaunchValues, "port")
	env := append(os.Environ(), fmt.Sprintf("ASPNETCORE_URLS=http://%s:%s", host, port))

	return process.Start(process.StartSpec{
		Executable:   "dotnet",
		Args:         append([]string{filepath.Join(filepath.FromSlash(buildOutputDir), "SwarmUI.dll")}, args...),
		WorkingDir:   req.InstallPath,
		Env:          env,
		OnOutputLine: s.outputObserver(req),
		Logger:       req.Logger,
	})
}

var _ Adapter = (*swarmUI)(nil)
