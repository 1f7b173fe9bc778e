package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-edge-platform/pip-bootstrap/internal/bootstrap"
	"github.com/open-edge-platform/pip-bootstrap/internal/bundler"
	"github.com/open-edge-platform/pip-bootstrap/internal/config"
	"github.com/open-edge-platform/pip-bootstrap/internal/distribution"
	"github.com/open-edge-platform/pip-bootstrap/internal/fetcher"
	"github.com/open-edge-platform/pip-bootstrap/internal/utils/logger"
)

// Global command flags
var (
	configFile string // Optional YAML config file
	verbosity  int    // -v occurrences, forwarded to the populator and pip
)

func main() {
	rootCmd := createRootCommand()
	if err := rootCmd.Execute(); err != nil {
		logger.Logger().Errorf("%v", err)
		os.Exit(1)
	}
}

// createRootCommand creates the pip-bootstrap root command
func createRootCommand() *cobra.Command {
	pipVersion, err := bootstrap.Version()
	if err != nil {
		pipVersion = "unknown"
	}

	rootCmd := &cobra.Command{
		Use:   "pip-bootstrap",
		Short: "Bootstrap pip into a Python runtime from bundled wheels",
		Long: `pip-bootstrap installs the bundled pip and setuptools wheels into a
Python runtime without touching the network at install time. The bundle
itself is populated ahead of shipping with the bundle subcommand, which
downloads each wheel once and verifies it against the SHA-256 pinned in
its URL.`,
		Version:       fmt.Sprintf("pip %s", pipVersion),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				if _, err := config.Load(configFile); err != nil {
					return err
				}
			}
			return logger.Setup(config.GlConfig.Logging.Level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to a YAML configuration file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Give more output. Option is additive, and can be used up to 3 times")

	rootCmd.AddCommand(createBootstrapCommand())
	rootCmd.AddCommand(createBundleCommand())
	rootCmd.AddCommand(createUninstallCommand())
	return rootCmd
}

// descriptors returns the configured distribution list, honoring any
// config file override.
func descriptors() ([]distribution.Descriptor, error) {
	if urls := config.GlConfig.DistributionURLs; len(urls) > 0 {
		return distribution.FromURLs(urls)
	}
	return distribution.Bundled()
}

// newPopulator builds the cache populator over the configured cache
// directory, creating the directory if needed.
func newPopulator() (*bundler.Populator, string, error) {
	helpers := config.NewConfigHelpers(config.GlConfig)
	cacheDir, err := helpers.CreateCacheDir()
	if err != nil {
		return nil, "", err
	}
	f := fetcher.New(helpers.HTTPTimeout())
	return bundler.New(cacheDir, f), cacheDir, nil
}
