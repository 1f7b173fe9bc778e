package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/open-edge-platform/pip-bootstrap/internal/distribution"
	"github.com/open-edge-platform/pip-bootstrap/internal/integrity"
	"github.com/open-edge-platform/pip-bootstrap/internal/utils/logger"
)

// createBundleCommand creates the bundle subcommand
func createBundleCommand() *cobra.Command {
	bundleCmd := &cobra.Command{
		Use:   "bundle",
		Short: "Download and verify the bundled wheels into the local cache",
		Long: `Bundle is the build-time half of the tool: it downloads each pinned
wheel into the cache directory, verifying it against the SHA-256 embedded
in its URL. Wheels already present and valid are skipped, so re-running is
cheap and the result is the same.`,
		Args: cobra.NoArgs,
		RunE: executeBundle,
	}
	return bundleCmd
}

// executeBundle handles the bundle command logic
func executeBundle(cmd *cobra.Command, args []string) error {
	log := logger.Logger()

	dists, err := descriptors()
	if err != nil {
		return err
	}
	populator, cacheDir, err := newPopulator()
	if err != nil {
		return err
	}

	log.Infof("populating wheel cache at %s", cacheDir)

	// single progress bar tracking wheels completed vs total
	bar := progressbar.NewOptions(len(dists),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetDescription("bundling"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	var report logger.BundleReport
	for _, d := range dists {
		bar.Describe(fmt.Sprintf("bundling %s", d.FileName))

		outcome := "downloaded"
		if cached, err := os.ReadFile(filepath.Join(cacheDir, d.FileName)); err == nil && integrity.Valid(cached, d.SHA256) {
			outcome = "cached"
		}

		if err := populator.EnsureDownloaded([]distribution.Descriptor{d}, verbosity); err != nil {
			return err
		}
		report.Record(d.FileName, outcome)
		bar.Add(1)
	}
	bar.Finish()

	if err := report.WriteTo(cacheDir); err != nil {
		log.Warnf("could not write bundle report: %v", err)
	}
	log.Infof("wheel cache is complete (%d wheels)", len(dists))
	return nil
}
