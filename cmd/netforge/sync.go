package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmahoney/netforge/internal/config"
	"github.com/kmahoney/netforge/internal/netxml"
)

var syncStateFile string

var syncCmd = &cobra.Command{
	Use:   "sync <config.yaml>",
	Short: "Make libvirt match a network configuration file",
	Long: `Synchronize a virtual network with its YAML configuration.

Any existing network of the same name is stopped and undefined, the
configured document is defined fresh, and the desired lifecycle state
is applied. Without a state block the network ends up active,
persistent, and autostarted.

The desired state comes from the config's state block, or from a
separate file via --state-file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(args[0])
		if err != nil {
			return err
		}

		desired := cfg.State
		if syncStateFile != "" {
			desired, err = config.LoadStateFile(syncStateFile)
			if err != nil {
				return err
			}
		}

		tool, cleanup, err := newTool()
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := cfg.Build(tool)
		if err != nil {
			return fmt.Errorf("failed to build network: %w", err)
		}
		if err := n.Sync(cmd.Context(), desired); err != nil {
			return fmt.Errorf("failed to sync network %s: %w", cfg.Name, err)
		}

		fmt.Printf("✓ Network %s synchronized\n", cfg.Name)
		return nil
	},
}

var nukeCmd = &cobra.Command{
	Use:   "nuke <network-name>",
	Short: "Forcefully remove all state for a network",
	Long: `Stop and undefine a network, ignoring every failure.

Use this to clear out a network in an unknown or broken state. The
command always succeeds; failures along the way are logged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, cleanup, err := newTool()
		if err != nil {
			return err
		}
		defer cleanup()

		n := netxml.NewNetwork(args[0], tool)
		n.OrbitalNuclearStrike(cmd.Context())

		fmt.Printf("✓ Network %s removed\n", args[0])
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncStateFile, "state-file", "",
		"YAML file with the desired lifecycle state (overrides the config's state block)")
}
