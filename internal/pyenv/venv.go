package pyenv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atelier-tools/atelier/internal/platform"
	"github.com/atelier-tools/atelier/internal/process"
	"github.com/rs/zerolog"
)

// Options configures a Venv handle.
type Options struct {
	// VenvPath is the root of the virtual environment.
	VenvPath string

	// WorkingDir is where scripts run; defaults to the venv's parent.
	WorkingDir string

	// Env is merged over the base environment before any toolkit injection.
	Env map[string]string

	// OverrideEnv is merged last and wins over everything, including the
	// toolkit injection.
	OverrideEnv map[string]string

	// InjectDefaultTkLibs adds the platform's static Tcl/Tk library paths
	// to the overlay.
	InjectDefaultTkLibs bool

	// BasePython is the system interpreter used to create the venv and to
	// answer Tcl/Tk queries. Defaults to the platform convention.
	BasePython string

	Platform platform.OS
	Runner   process.Runner
	Logger   zerolog.Logger
}

// Venv is a handle on one Python virtual environment rooted at a path.
// Constructing it never touches disk; Create provisions the directory.
type Venv struct {
	root       string
	workingDir string
	basePython string
	platform   platform.OS
	runner     process.Runner
	log        zerolog.Logger

	extraEnv    map[string]string
	overrideEnv map[string]string
	tkLibs      *TkLibs
}

// NewRunner returns a Venv bound to opts.VenvPath without touching disk.
func NewRunner(opts Options) *Venv {
	v := &Venv{
		root:        opts.VenvPath,
		workingDir:  opts.WorkingDir,
		basePython:  opts.BasePython,
		platform:    opts.Platform,
		runner:      opts.Runner,
		log:         opts.Logger,
		extraEnv:    opts.Env,
		overrideEnv: opts.OverrideEnv,
	}
	if v.workingDir == "" {
		v.workingDir = filepath.Dir(opts.VenvPath)
	}
	if v.basePython == "" {
		v.basePython = basePythonName(opts.Platform)
	}
	if v.runner == nil {
		v.runner = process.NewExecRunner()
	}
	if opts.InjectDefaultTkLibs {
		libs := DefaultTkLibs(opts.Platform, v.basePython)
		v.tkLibs = &libs
	}
	return v
}

// NewRunnerWithQueriedLibs builds a Venv and asks the base interpreter for
// its bundled Tcl/Tk library paths, merging successful results into the
// environment overlay. A query failure is logged and the handle proceeds
// with whatever libraries were already configured; it is never fatal.
func NewRunnerWithQueriedLibs(ctx context.Context, opts Options) *Venv {
	v := NewRunner(opts)
	libs, err := QueryTkLibs(ctx, v.runner, v.basePython)
	if err != nil {
		v.log.Warn().Err(err).Str("python", v.basePython).Msg("Tcl/Tk library query failed, keeping configured libraries")
		return v
	}
	v.tkLibs = libs
	return v
}

// Root returns the venv root path.
func (v *Venv) Root() string { return v.root }

// PythonPath returns the venv interpreter path for the handle's platform.
func (v *Venv) PythonPath() string {
	switch v.platform {
	case platform.Windows:
		return filepath.Join(v.root, "Scripts", "python.exe")
	case platform.Linux, platform.Darwin:
		return filepath.Join(v.root, "bin", "python3")
	}
	// Unreachable: the platform tag is validated by platform.Detect at
	// startup before any Venv exists.
	return ""
}

// binDir returns the venv's executable directory for PATH prepending.
func (v *Venv) binDir() string {
	switch v.platform {
	case platform.Windows:
		return filepath.Join(v.root, "Scripts")
	case platform.Linux, platform.Darwin:
		return filepath.Join(v.root, "bin")
	}
	return ""
}

// basePythonName returns the system interpreter name per platform.
func basePythonName(os platform.OS) string {
	switch os {
	case platform.Windows:
		return "python.exe"
	case platform.Linux, platform.Darwin:
		return "python3"
	}
	return ""
}

// Exists reports whether the venv directory has been provisioned.
func (v *Venv) Exists() bool {
	_, err := os.Stat(v.PythonPath())
	return err == nil
}

// Create provisions the virtual environment with the base interpreter.
// It is idempotent: an existing venv is left untouched.
func (v *Venv) Create(ctx context.Context) error {
	if v.Exists() {
		return nil
	}
	if _, err := v.runner.Run(ctx, v.workingDir, v.basePython, "-m", "venv", v.root); err != nil {
		return fmt.Errorf("creating venv at %s: %w", v.root, err)
	}
	return nil
}

// PipInstall installs packages into the venv, streaming pip output.
func (v *Venv) PipInstall(ctx context.Context, onLine func(string), args ...string) error {
	full := append([]string{"-m", "pip", "install"}, args...)
	if err := v.runStreamingEnv(ctx, onLine, v.PythonPath(), full...); err != nil {
		return fmt.Errorf("pip install: %w", err)
	}
	return nil
}

// InstallRequirements installs a requirements file into the venv.
func (v *Venv) InstallRequirements(ctx context.Context, requirementsPath string, onLine func(string)) error {
	return v.PipInstall(ctx, onLine, "-r", requirementsPath)
}

// RunScript executes a Python source string inside the venv.
func (v *Venv) RunScript(ctx context.Context, script string, onLine func(string)) error {
	if err := v.runStreamingEnv(ctx, onLine, v.PythonPath(), "-c", script); err != nil {
		return fmt.Errorf("running script in venv %s: %w", v.root, err)
	}
	return nil
}

// Environ returns the merged environment overlay for venv subprocesses.
// Order: base process environment with venv activation, explicit extras,
// Tcl/Tk injection if configured, then override extras.
func (v *Venv) Environ() []string {
	base := os.Environ()
	base = setEnv(base, "VIRTUAL_ENV", v.root)
	if path, ok := getEnv(base, "PATH"); ok {
		base = setEnv(base, "PATH", v.binDir()+string(os.PathListSeparator)+path)
	} else {
		base = setEnv(base, "PATH", v.binDir())
	}

	var toolkit map[string]string
	if v.tkLibs != nil {
		toolkit = v.tkLibs.EnvVars()
	}
	return mergeEnv(base, v.extraEnv, toolkit, v.overrideEnv)
}

func (v *Venv) runStreamingEnv(ctx context.Context, onLine func(string), name string, args ...string) error {
	// Real executions carry the merged overlay; other Runner
	// implementations (mocks) see the call unchanged.
	r := v.runner
	if _, ok := r.(*process.ExecRunner); ok {
		r = &process.ExecRunner{Env: v.Environ()}
	}
	return r.RunStreaming(ctx, v.workingDir, onLine, name, args...)
}
