package pyenv

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atelier-tools/atelier/internal/platform"
	"github.com/atelier-tools/atelier/internal/process"
)

// TkLibs holds the Tcl/Tk library directories injected into venv
// subprocess environments so GUI-toolkit scripts can find their runtime.
type TkLibs struct {
	TclLibrary string `json:"tcl_library"`
	TkLibrary  string `json:"tk_library"`
}

// EnvVars renders the library paths as their environment variables.
func (t TkLibs) EnvVars() map[string]string {
	vars := make(map[string]string, 2)
	if t.TclLibrary != "" {
		vars["TCL_LIBRARY"] = t.TclLibrary
	}
	if t.TkLibrary != "" {
		vars["TK_LIBRARY"] = t.TkLibrary
	}
	return vars
}

// tkQueryScript asks the interpreter where its bundled Tcl/Tk lives and
// prints a two-field JSON object on a single line.
const tkQueryScript = `import json, tkinter, os
root = tkinter.Tk()
root.withdraw()
print(json.dumps({"tcl_library": root.tk.exprstring("$tcl_library"), "tk_library": root.tk.exprstring("$tk_library")}))
root.destroy()`

// QueryTkLibs spawns the base interpreter with a short inline script to
// query its bundled Tcl/Tk library paths.
func QueryTkLibs(ctx context.Context, runner process.Runner, basePython string) (*TkLibs, error) {
	out, err := runner.Run(ctx, "", basePython, "-c", tkQueryScript)
	if err != nil {
		return nil, fmt.Errorf("querying Tcl/Tk libraries: %w", err)
	}

	// The script prints exactly one JSON line; tolerate interpreter noise
	// around it by scanning for the object.
	var libs TkLibs
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		if err := json.Unmarshal([]byte(line), &libs); err == nil && (libs.TclLibrary != "" || libs.TkLibrary != "") {
			return &libs, nil
		}
	}
	return nil, fmt.Errorf("querying Tcl/Tk libraries: no JSON object in interpreter output")
}

// DefaultTkLibs returns the static per-platform library locations used when
// injection is requested without a live interpreter query.
func DefaultTkLibs(os platform.OS, basePython string) TkLibs {
	switch os {
	case platform.Windows:
		prefix := filepath.Dir(basePython)
		return TkLibs{
			TclLibrary: filepath.Join(prefix, "tcl", "tcl8.6"),
			TkLibrary:  filepath.Join(prefix, "tcl", "tk8.6"),
		}
	case platform.Linux:
		return TkLibs{
			TclLibrary: "/usr/share/tcltk/tcl8.6",
			TkLibrary:  "/usr/share/tcltk/tk8.6",
		}
	case platform.Darwin:
		return TkLibs{
			TclLibrary: "/Library/Frameworks/Python.framework/Versions/Current/lib/tcl8.6",
			TkLibrary:  "/Library/Frameworks/Python.framework/Versions/Current/lib/tk8.6",
		}
	}
	return TkLibs{}
}
