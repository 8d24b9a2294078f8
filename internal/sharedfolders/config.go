package sharedfolders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"github.com/atelier-tools/atelier/internal/packages"
)

// configWriter implements the config shared-folder strategy for one
// package type: point the package's own settings file at the central
// library, and reset it back to the package defaults on removal.
type configWriter interface {
	apply(l *Linker, installPath string) error
	reset(l *Linker, installPath string) error
}

// configWriters maps package types to their settings-file format. Types
// absent here do not support the config strategy.
var configWriters = map[string]configWriter{
	packages.TypeComfyUI: comfyUIPaths{},
	packages.TypeKohya:   kohyaConfig{},
}

func (l *Linker) applyConfig(meta packages.Metadata, installPath string) error {
	w, ok := configWriters[meta.Type]
	if !ok {
		return nil
	}
	return w.apply(l, installPath)
}

func (l *Linker) resetConfig(meta packages.Metadata, installPath string) error {
	w, ok := configWriters[meta.Type]
	if !ok {
		return nil
	}
	return w.reset(l, installPath)
}

// comfyUIPaths manages ComfyUI's extra_model_paths.yaml. Applying writes
// an "atelier" section pointing every model class at the library; reset
// restores the stock file, which carries no such section.
type comfyUIPaths struct{}

const comfyPathsFileName = "extra_model_paths.yaml"

// comfyPathsDoc is the full document. Struct marshaling keeps field order
// stable so reset output is reproducible.
type comfyPathsDoc struct {
	Atelier *comfyPathsSection `yaml:"atelier,omitempty"`
}

type comfyPathsSection struct {
	BasePath      string `yaml:"base_path"`
	Checkpoints   string `yaml:"checkpoints"`
	Diffusers     string `yaml:"diffusers"`
	Loras         string `yaml:"loras"`
	VAE           string `yaml:"vae"`
	ControlNet    string `yaml:"controlnet"`
	Embeddings    string `yaml:"embeddings"`
	UpscaleModels string `yaml:"upscale_models"`
	CLIP          string `yaml:"clip"`
}

func (comfyUIPaths) path(installPath string) string {
	return filepath.Join(installPath, comfyPathsFileName)
}

func (c comfyUIPaths) apply(l *Linker, installPath string) error {
	doc := comfyPathsDoc{Atelier: &comfyPathsSection{
		BasePath:      l.LibraryDir,
		Checkpoints:   "checkpoints",
		Diffusers:     "diffusers",
		Loras:         "lora",
		VAE:           "vae",
		ControlNet:    "controlnet",
		Embeddings:    "embeddings",
		UpscaleModels: "upscalers",
		CLIP:          "clip",
	}}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling model paths: %w", err)
	}
	if err := os.WriteFile(c.path(installPath), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", comfyPathsFileName, err)
	}
	return nil
}

func (c comfyUIPaths) reset(l *Linker, installPath string) error {
	// The stock package ships without this file; restoring the default
	// means removing it.
	if err := os.Remove(c.path(installPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("resetting %s: %w", comfyPathsFileName, err)
	}
	return nil
}

// kohyaConfig manages the trainer's config.toml model and output
// directories.
type kohyaConfig struct{}

const kohyaConfigFileName = "config.toml"

type kohyaConfigDoc struct {
	ModelsDir string `toml:"models_dir"`
	OutputDir string `toml:"output_dir"`
}

// kohyaDefaults is the stock configuration a fresh install starts with.
var kohyaDefaults = kohyaConfigDoc{
	ModelsDir: "./models",
	OutputDir: "./outputs",
}

func (kohyaConfig) path(installPath string) string {
	return filepath.Join(installPath, kohyaConfigFileName)
}

func (k kohyaConfig) apply(l *Linker, installPath string) error {
	doc := kohyaConfigDoc{
		ModelsDir: filepath.Join(l.LibraryDir, "checkpoints"),
		OutputDir: l.OutputsDir,
	}
	return k.write(installPath, doc)
}

func (k kohyaConfig) reset(l *Linker, installPath string) error {
	return k.write(installPath, kohyaDefaults)
}

func (k kohyaConfig) write(installPath string, doc kohyaConfigDoc) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", kohyaConfigFileName, err)
	}
	if err := os.WriteFile(k.path(installPath), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", kohyaConfigFileName, err)
	}
	return nil
}
