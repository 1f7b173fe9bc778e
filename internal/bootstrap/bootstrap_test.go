package bootstrap_test

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/open-edge-platform/pip-bootstrap/internal/bootstrap"
	"github.com/open-edge-platform/pip-bootstrap/internal/bundler"
	"github.com/open-edge-platform/pip-bootstrap/internal/distribution"
)

func testDescriptors(t *testing.T) []distribution.Descriptor {
	t.Helper()
	descriptors, err := distribution.FromURLs([]string{
		"https://host/p/setuptools-41.0.0-py2.py3-none-any.whl#sha256=" + contentHash([]byte("setuptools content")),
		"https://host/p/pip-19.0.3-py2.py3-none-any.whl#sha256=" + contentHash([]byte("pip content")),
	})
	if err != nil {
		t.Fatalf("building descriptors: %v", err)
	}
	return descriptors
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// recordingRunner captures the installer invocation and checks that the
// staged wheels exist while the installer runs (the staging directory is
// removed afterwards).
type recordingRunner struct {
	t          *testing.T
	args       []string
	pythonPath []string
}

func (r *recordingRunner) Run(args []string, extraPythonPath []string) error {
	r.args = args
	r.pythonPath = extraPythonPath
	for _, p := range extraPythonPath {
		if _, err := os.Stat(p); err != nil {
			r.t.Errorf("staged wheel %s should exist during the install: %v", p, err)
		}
	}
	return nil
}

// stubFetcher serves wheel content from memory and fails loudly for
// anything it does not know.
type stubFetcher struct {
	content map[string][]byte
}

func (s *stubFetcher) Fetch(url string) ([]byte, error) {
	name := url[strings.LastIndex(url, "/")+1:]
	if i := strings.IndexByte(name, '#'); i >= 0 {
		name = name[:i]
	}
	content, ok := s.content[name]
	if !ok {
		return nil, fmt.Errorf("unexpected fetch of %s", url)
	}
	return content, nil
}

func TestInstallArgs(t *testing.T) {
	descriptors := testDescriptors(t)

	args := bootstrap.InstallArgs("/tmp/staging", descriptors, bootstrap.Options{
		Root:      "/alt/root",
		Upgrade:   true,
		User:      true,
		Verbosity: 2,
	})
	expected := []string{
		"install", "--no-index", "--find-links", "/tmp/staging",
		"--root", "/alt/root", "--upgrade", "--user", "-vv",
		"setuptools", "pip",
	}
	if !reflect.DeepEqual(args, expected) {
		t.Errorf("Expected args %v, got %v", expected, args)
	}
}

func TestInstallArgsMinimal(t *testing.T) {
	args := bootstrap.InstallArgs("/tmp/s", testDescriptors(t), bootstrap.Options{})
	expected := []string{"install", "--no-index", "--find-links", "/tmp/s", "setuptools", "pip"}
	if !reflect.DeepEqual(args, expected) {
		t.Errorf("Expected args %v, got %v", expected, args)
	}
}

func TestUninstallArgsReversesOrder(t *testing.T) {
	args := bootstrap.UninstallArgs(testDescriptors(t), 1)
	expected := []string{"uninstall", "-y", "--disable-pip-version-check", "-v", "pip", "setuptools"}
	if !reflect.DeepEqual(args, expected) {
		t.Errorf("Expected args %v, got %v", expected, args)
	}
}

func TestDisablePipConfiguration(t *testing.T) {
	t.Setenv("PIP_INDEX_URL", "https://index.example.com")
	t.Setenv("PIP_RETRIES", "10")
	t.Setenv("PIPELINE", "keep-me")
	t.Setenv("PIP_CONFIG_FILE", "/home/user/pip.conf")

	bootstrap.DisablePipConfiguration()

	if _, ok := os.LookupEnv("PIP_INDEX_URL"); ok {
		t.Errorf("PIP_INDEX_URL should be scrubbed")
	}
	if _, ok := os.LookupEnv("PIP_RETRIES"); ok {
		t.Errorf("PIP_RETRIES should be scrubbed")
	}
	if os.Getenv("PIPELINE") != "keep-me" {
		t.Errorf("non-PIP_ variables must be left alone")
	}
	if os.Getenv("PIP_CONFIG_FILE") != os.DevNull {
		t.Errorf("PIP_CONFIG_FILE should point at %s, got %s", os.DevNull, os.Getenv("PIP_CONFIG_FILE"))
	}
}

func TestPipVersion(t *testing.T) {
	version, err := bootstrap.PipVersion(testDescriptors(t))
	if err != nil {
		t.Fatalf("PipVersion failed: %v", err)
	}
	if version != "19.0.3" {
		t.Errorf("Expected version 19.0.3, got %s", version)
	}
}

func TestPipVersionMissingPip(t *testing.T) {
	descriptors, err := distribution.FromURLs([]string{
		"https://host/p/setuptools-41.0.0-py2.py3-none-any.whl",
	})
	if err != nil {
		t.Fatalf("building descriptors: %v", err)
	}
	if _, err := bootstrap.PipVersion(descriptors); err == nil {
		t.Errorf("PipVersion should fail when pip is not in the list")
	}
}

func TestBootstrapStagesWheelsAndInvokesInstaller(t *testing.T) {
	descriptors := testDescriptors(t)
	cacheDir := t.TempDir()
	tempDir := t.TempDir()

	fetcher := &stubFetcher{content: map[string][]byte{
		descriptors[0].FileName: []byte("setuptools content"),
		descriptors[1].FileName: []byte("pip content"),
	}}
	populator := bundler.New(cacheDir, fetcher)
	runner := &recordingRunner{t: t}

	b := bootstrap.New(descriptors, populator, tempDir, runner)
	if err := b.Bootstrap(cacheDir, bootstrap.Options{Verbosity: 0}); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	if len(runner.pythonPath) != 2 {
		t.Fatalf("Expected 2 staged wheels on the import path, got %d", len(runner.pythonPath))
	}
	for i, d := range descriptors {
		if filepath.Base(runner.pythonPath[i]) != d.FileName {
			t.Errorf("Expected staged wheel %s, got %s", d.FileName, runner.pythonPath[i])
		}
	}
	if len(runner.args) == 0 || runner.args[0] != "install" {
		t.Fatalf("Expected an install invocation, got %v", runner.args)
	}
	for _, required := range []string{"--no-index", "--find-links", "setuptools", "pip"} {
		found := false
		for _, a := range runner.args {
			if a == required {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Installer args missing %s: %v", required, runner.args)
		}
	}

	// Staging directory is removed after the run
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("reading temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Staging directory should be cleaned up, found %v", entries)
	}
}

func TestBootstrapRejectsConflictingModes(t *testing.T) {
	b := bootstrap.New(testDescriptors(t), nil, t.TempDir(), &recordingRunner{t: t})
	err := b.Bootstrap(t.TempDir(), bootstrap.Options{Altinstall: true, DefaultPip: true})
	if err == nil {
		t.Fatalf("Bootstrap should reject altinstall together with default-pip")
	}
}
