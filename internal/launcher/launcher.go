// Package launcher handles the --gui re-exec: the parent process spawns
// itself with a marker in the environment and only the config file
// flag, and the child starts the interactive front-end.
package launcher

import (
	"context"
	"os"
	"strings"

	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/exec"
)

const (
	guiFlag     = "--gui"
	guiFlagTrue = guiFlag + "=true"
	fileFlag    = "--file"
	fileFlagEq  = fileFlag + "="
	fileShort   = "-f"
	markerValue = "1"
)

// GUIRequested reports whether args contain --gui or --gui=true.
func GUIRequested(args []string) bool {
	for _, a := range args {
		if a == guiFlag || a == guiFlagTrue {
			return true
		}
	}
	return false
}

// FileArg returns the last --file, -f or --file= value in args, or def.
func FileArg(args []string, def string) string {
	file := def
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == fileFlag || a == fileShort:
			if i+1 < len(args) {
				file = args[i+1]
				i++
			}
		case strings.HasPrefix(a, fileFlagEq):
			file = strings.TrimPrefix(a, fileFlagEq)
		}
	}
	return file
}

// ChildArgs returns the arguments forwarded to the child: every file
// flag, in its original spelling, and nothing else.
func ChildArgs(args []string) []string {
	out := []string{}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == fileFlag || a == fileShort:
			if i+1 < len(args) {
				out = append(out, fileFlag, args[i+1])
				i++
			}
		case strings.HasPrefix(a, fileFlagEq):
			out = append(out, a)
		}
	}
	return out
}

// ChildEnv returns the extra environment entries of the child.
func ChildEnv() []string {
	return []string{constants.EnvGUIRun + "=" + markerValue}
}

// IsChild reports whether this process was spawned by Spawn.
func IsChild() bool {
	return isChild(os.LookupEnv)
}

func isChild(lookup func(string) (string, bool)) bool {
	_, ok := lookup(constants.EnvGUIRun)
	return ok
}

// Spawn runs exe as the GUI child on the current terminal and returns
// its exit code.
func Spawn(ctx context.Context, executor exec.Executor, exe string, args []string) (int, error) {
	result := executor.Attach(ctx, ChildEnv(), exe, ChildArgs(args)...)
	if result.Error != nil {
		return constants.ExitError.Int(), errors.Wrap(errors.Execution, "Failed to spawn GUI child", result.Error).WithOp("launcher.Spawn")
	}
	return result.ExitCode, nil
}
