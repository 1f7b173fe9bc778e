package bootstrap

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/open-edge-platform/pip-bootstrap/internal/utils/logger"
)

// PipRunner invokes the external installer. extraPythonPath entries are
// prepended to PYTHONPATH so the staged wheels are importable before
// anything is installed.
type PipRunner interface {
	Run(args []string, extraPythonPath []string) error
}

// ExecRunner runs `<python> -m pip` as a subprocess.
type ExecRunner struct {
	// Python is the interpreter of the target runtime.
	Python string
}

// NewExecRunner returns an ExecRunner for the given interpreter, defaulting
// to python3 on PATH.
func NewExecRunner(python string) *ExecRunner {
	if python == "" {
		python = "python3"
	}
	return &ExecRunner{Python: python}
}

func (r *ExecRunner) Run(args []string, extraPythonPath []string) error {
	log := logger.Logger()

	cmd := exec.Command(r.Python, append([]string{"-m", "pip"}, args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if len(extraPythonPath) > 0 {
		pythonPath := strings.Join(extraPythonPath, string(os.PathListSeparator))
		if existing := os.Getenv("PYTHONPATH"); existing != "" {
			pythonPath += string(os.PathListSeparator) + existing
		}
		cmd.Env = append(cmd.Env, "PYTHONPATH="+pythonPath)
	}

	log.Debugf("running %s -m pip %s", r.Python, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s -m pip: %w", r.Python, err)
	}
	return nil
}
