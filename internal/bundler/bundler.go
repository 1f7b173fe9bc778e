// Package bundler populates the local wheel cache from the pinned
// distribution URLs. Downloads happen at most once per wheel: a cached
// copy whose content matches the hash pinned in the URL is reused, and a
// download that fails verification is never written to disk.
package bundler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/open-edge-platform/pip-bootstrap/internal/distribution"
	"github.com/open-edge-platform/pip-bootstrap/internal/integrity"
	"github.com/open-edge-platform/pip-bootstrap/internal/utils/logger"
)

// IntegrityError reports a downloaded payload whose SHA-256 does not match
// the hash pinned in the distribution URL. The stale or missing cache file
// is left exactly as it was; untrusted content is never written.
type IntegrityError struct {
	URL string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("the payload's hash is invalid for %s", e.URL)
}

// Fetcher retrieves the full contents of a URL in one blocking call.
type Fetcher interface {
	Fetch(url string) ([]byte, error)
}

// Populator fills a cache directory with verified distribution archives.
type Populator struct {
	cacheDir string
	fetcher  Fetcher
	progress io.Writer
}

// Option configures a Populator.
type Option func(*Populator)

// WithProgressWriter redirects per-wheel progress lines. The default is
// stderr; stdout stays clean for callers that consume it.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Populator) { p.progress = w }
}

// New returns a Populator writing into cacheDir.
func New(cacheDir string, fetcher Fetcher, opts ...Option) *Populator {
	p := &Populator{
		cacheDir: cacheDir,
		fetcher:  fetcher,
		progress: os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnsureDownloaded makes every descriptor valid-in-cache, in list order.
// Wheels whose cached content already matches the pinned hash are skipped;
// everything else is fetched, verified, and only then written. The first
// failure aborts the run: a *fetcher.NetworkError propagates unchanged, a
// hash mismatch surfaces as *IntegrityError, and filesystem errors other
// than a missing cache file are fatal. At verbosity >= 1 one line per
// wheel is written to the progress writer.
func (p *Populator) EnsureDownloaded(descriptors []distribution.Descriptor, verbosity int) error {
	log := logger.Logger()

	for _, d := range descriptors {
		cachePath := filepath.Join(p.cacheDir, d.FileName)

		cached, err := os.ReadFile(cachePath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading cached wheel %s: %w", cachePath, err)
		}
		if err == nil && integrity.Valid(cached, d.SHA256) {
			log.Debugf("cache hit for %s", d.FileName)
			if verbosity >= 1 {
				fmt.Fprintf(p.progress, "A valid `%s` is already present in cache. Skipping download.\n", d.FileName)
			}
			continue
		}

		log.Debugf("cache miss for %s, fetching %s", d.FileName, d.URL)
		if verbosity >= 1 {
			fmt.Fprintf(p.progress, "Downloading `%s`...\n", d.FileName)
		}
		content, err := p.fetcher.Fetch(d.URL)
		if err != nil {
			return err
		}

		if !integrity.Valid(content, d.SHA256) {
			return &IntegrityError{URL: d.URL}
		}

		if verbosity >= 1 {
			fmt.Fprintf(p.progress, "Saving `%s` to disk...\n", d.FileName)
		}
		if err := os.WriteFile(cachePath, content, 0644); err != nil {
			return fmt.Errorf("writing cached wheel %s: %w", cachePath, err)
		}
	}
	return nil
}
