package packages

// Accelerator is the torch compute variant chosen at install time.
type Accelerator string

const (
	AccelCPU  Accelerator = "cpu"
	AccelCUDA Accelerator = "cuda"
	AccelROCm Accelerator = "rocm"
	AccelMPS  Accelerator = "mps"
)

// Accelerators lists all known variants.
func Accelerators() []Accelerator {
	return []Accelerator{AccelCPU, AccelCUDA, AccelROCm, AccelMPS}
}

// TorchIndexURL returns the pip extra index serving this variant's torch
// wheels. Empty means the default PyPI index (mps ships in the default
// macOS wheels).
func (a Accelerator) TorchIndexURL() string {
	switch a {
	case AccelCUDA:
		return "https://download.pytorch.org/whl/cu124"
	case AccelROCm:
		return "https://download.pytorch.org/whl/rocm6.2"
	case AccelCPU:
		return "https://download.pytorch.org/whl/cpu"
	}
	return ""
}

// torchInstallArgs builds the pip arguments installing the torch stack for
// this variant.
func (a Accelerator) torchInstallArgs() []string {
	args := []string{"torch", "torchvision", "torchaudio"}
	if url := a.TorchIndexURL(); url != "" {
		args = append(args, "--index-url", url)
	}
	return args
}
