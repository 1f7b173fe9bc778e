// Package bootstrap installs the bundled pip and setuptools wheels into a
// Python runtime. The wheel cache is populated first, then the wheels are
// staged into a scratch directory and handed to the installer as a local,
// network-free package source.
package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/open-edge-platform/pip-bootstrap/internal/bundler"
	"github.com/open-edge-platform/pip-bootstrap/internal/distribution"
	"github.com/open-edge-platform/pip-bootstrap/internal/utils/logger"
)

// Options controls how the bundled installer is bootstrapped.
type Options struct {
	// Root installs everything relative to this alternate root directory.
	Root string
	// Upgrade upgrades pip and dependencies even if already installed.
	Upgrade bool
	// User installs using the user scheme.
	User bool
	// Altinstall installs only the versioned scripts (pipX.Y).
	Altinstall bool
	// DefaultPip installs the unqualified pip script as well.
	DefaultPip bool
	// Verbosity is forwarded to the populator and the installer.
	Verbosity int
}

// Bootstrapper wires the wheel cache, the scratch area, and the installer
// process together.
type Bootstrapper struct {
	descriptors []distribution.Descriptor
	populator   *bundler.Populator
	tempDir     string
	runner      PipRunner
}

// New returns a Bootstrapper over the given descriptor list. tempDir is
// where per-run staging directories are created.
func New(descriptors []distribution.Descriptor, populator *bundler.Populator, tempDir string, runner PipRunner) *Bootstrapper {
	return &Bootstrapper{
		descriptors: descriptors,
		populator:   populator,
		tempDir:     tempDir,
		runner:      runner,
	}
}

// Bootstrap installs the bundled wheels into the target runtime. It alters
// the process environment: pip's own configuration is disabled so the
// install cannot be influenced by the surrounding machine.
func (b *Bootstrapper) Bootstrap(cacheDir string, opts Options) error {
	log := logger.Logger()

	if opts.Altinstall && opts.DefaultPip {
		return fmt.Errorf("cannot use altinstall and default-pip together")
	}

	DisablePipConfiguration()

	// pip 1.5+ lets us request that the unqualified scripts be left out.
	if opts.Altinstall {
		os.Setenv("ENSUREPIP_OPTIONS", "altinstall")
	} else if !opts.DefaultPip {
		os.Setenv("ENSUREPIP_OPTIONS", "install")
	}

	if err := b.populator.EnsureDownloaded(b.descriptors, opts.Verbosity); err != nil {
		return err
	}

	staging := filepath.Join(b.tempDir, "pip-bootstrap-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0755); err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	wheelPaths := make([]string, 0, len(b.descriptors))
	for _, d := range b.descriptors {
		src := filepath.Join(cacheDir, d.FileName)
		dst := filepath.Join(staging, d.FileName)
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("staging wheel %s: %w", d.FileName, err)
		}
		wheelPaths = append(wheelPaths, dst)
	}

	args := InstallArgs(staging, b.descriptors, opts)
	log.Debugf("invoking installer: pip %s", strings.Join(args, " "))
	return b.runner.Run(args, wheelPaths)
}

// Uninstall removes the bundled distributions from the target runtime, in
// reverse install order so dependents go first.
func (b *Bootstrapper) Uninstall(verbosity int) error {
	DisablePipConfiguration()
	return b.runner.Run(UninstallArgs(b.descriptors, verbosity), nil)
}

// InstallArgs builds the installer argument list for a bootstrap run. The
// staged directory is the only package source; the index is never
// consulted.
func InstallArgs(stagingDir string, descriptors []distribution.Descriptor, opts Options) []string {
	args := []string{"install", "--no-index", "--find-links", stagingDir}
	if opts.Root != "" {
		args = append(args, "--root", opts.Root)
	}
	if opts.Upgrade {
		args = append(args, "--upgrade")
	}
	if opts.User {
		args = append(args, "--user")
	}
	if opts.Verbosity > 0 {
		args = append(args, "-"+strings.Repeat("v", opts.Verbosity))
	}
	for _, d := range descriptors {
		name, _ := d.NameAndVersion()
		args = append(args, name)
	}
	return args
}

// UninstallArgs builds the installer argument list for an uninstall run.
func UninstallArgs(descriptors []distribution.Descriptor, verbosity int) []string {
	args := []string{"uninstall", "-y", "--disable-pip-version-check"}
	if verbosity > 0 {
		args = append(args, "-"+strings.Repeat("v", verbosity))
	}
	for i := len(descriptors) - 1; i >= 0; i-- {
		name, _ := descriptors[i].NameAndVersion()
		args = append(args, name)
	}
	return args
}

// DisablePipConfiguration deliberately ignores all pip environment
// variables and the default pip configuration file when invoking pip, so
// the bootstrap outcome depends only on the bundled wheels.
func DisablePipConfiguration() {
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "PIP_") {
			os.Unsetenv(key)
		}
	}
	os.Setenv("PIP_CONFIG_FILE", os.DevNull)
}

// Version returns the bundled pip version.
func Version() (string, error) {
	descriptors, err := distribution.Bundled()
	if err != nil {
		return "", err
	}
	return PipVersion(descriptors)
}

// PipVersion extracts the pip version from a descriptor list.
func PipVersion(descriptors []distribution.Descriptor) (string, error) {
	for _, d := range descriptors {
		name, version := d.NameAndVersion()
		if name == "pip" {
			return version, nil
		}
	}
	return "", fmt.Errorf("failed to get bundled pip version")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
