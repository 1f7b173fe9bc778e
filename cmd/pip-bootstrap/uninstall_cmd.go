package main

import (
	"github.com/spf13/cobra"

	"github.com/open-edge-platform/pip-bootstrap/internal/bootstrap"
	"github.com/open-edge-platform/pip-bootstrap/internal/config"
	"github.com/open-edge-platform/pip-bootstrap/internal/utils/logger"
)

// Uninstall command flags
var uninstallPython string // Target interpreter

// createUninstallCommand creates the uninstall subcommand
func createUninstallCommand() *cobra.Command {
	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the bundled pip and setuptools from a Python runtime",
		Long: `Uninstall removes exactly the distributions this tool bundles, in
reverse install order. It is intended for clean default-uninstall flows and
refuses nothing: a runtime without pip is simply a no-op for pip itself.`,
		Args: cobra.NoArgs,
		RunE: executeUninstall,
	}

	uninstallCmd.Flags().StringVar(&uninstallPython, "python", "python3",
		"Interpreter of the target runtime")
	return uninstallCmd
}

// executeUninstall handles the uninstall command logic
func executeUninstall(cmd *cobra.Command, args []string) error {
	log := logger.Logger()

	dists, err := descriptors()
	if err != nil {
		return err
	}

	helpers := config.NewConfigHelpers(config.GlConfig)
	runner := bootstrap.NewExecRunner(uninstallPython)
	// Uninstall never touches the wheel cache, so no populator is wired.
	b := bootstrap.New(dists, nil, helpers.TempDir(), runner)

	log.Infof("uninstalling bundled pip from %s", uninstallPython)
	return b.Uninstall(verbosity)
}
