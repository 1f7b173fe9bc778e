package main

import (
	"github.com/spf13/cobra"

	"github.com/open-edge-platform/pip-bootstrap/internal/bootstrap"
	"github.com/open-edge-platform/pip-bootstrap/internal/config"
	"github.com/open-edge-platform/pip-bootstrap/internal/utils/logger"
)

// Bootstrap command flags
var (
	installRoot string // Alternate root directory
	upgrade     bool   // Upgrade even if already installed
	userScheme  bool   // Install using the user scheme
	altinstall  bool   // Only install the versioned scripts
	defaultPip  bool   // Also install the unqualified pip script
	pythonExe   string // Target interpreter
)

// createBootstrapCommand creates the bootstrap subcommand
func createBootstrapCommand() *cobra.Command {
	bootstrapCmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Install the bundled pip and setuptools into a Python runtime",
		Long: `Bootstrap ensures the bundled wheels are present and verified in the
local cache, stages them into a scratch directory, and instructs the target
interpreter's pip to install from that directory only (--no-index). No
network access happens at install time when the cache is already populated.`,
		Args: cobra.NoArgs,
		RunE: executeBootstrap,
	}

	bootstrapCmd.Flags().StringVar(&installRoot, "root", "",
		"Install everything relative to this alternate root directory")
	bootstrapCmd.Flags().BoolVarP(&upgrade, "upgrade", "U", false,
		"Upgrade pip and dependencies, even if already installed")
	bootstrapCmd.Flags().BoolVar(&userScheme, "user", false,
		"Install using the user scheme")
	bootstrapCmd.Flags().BoolVar(&altinstall, "altinstall", false,
		"Make an alternate install, installing only the versioned scripts")
	bootstrapCmd.Flags().BoolVar(&defaultPip, "default-pip", false,
		"Make a default pip install, installing the unqualified pip as well")
	bootstrapCmd.Flags().StringVar(&pythonExe, "python", "python3",
		"Interpreter of the target runtime")
	return bootstrapCmd
}

// executeBootstrap handles the bootstrap command logic
func executeBootstrap(cmd *cobra.Command, args []string) error {
	log := logger.Logger()

	dists, err := descriptors()
	if err != nil {
		return err
	}
	populator, cacheDir, err := newPopulator()
	if err != nil {
		return err
	}

	helpers := config.NewConfigHelpers(config.GlConfig)
	runner := bootstrap.NewExecRunner(pythonExe)
	b := bootstrap.New(dists, populator, helpers.TempDir(), runner)

	log.Infof("bootstrapping pip into %s", pythonExe)
	return b.Bootstrap(cacheDir, bootstrap.Options{
		Root:       installRoot,
		Upgrade:    upgrade,
		User:       userScheme,
		Altinstall: altinstall,
		DefaultPip: defaultPip,
		Verbosity:  verbosity,
	})
}
