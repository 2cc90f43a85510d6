package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmahoney/netforge/internal/config"
	"github.com/kmahoney/netforge/internal/netxml"
)

var dumpXMLCmd = &cobra.Command{
	Use:   "dumpxml <network-name>",
	Short: "Print a network's XML document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, cleanup, err := newTool()
		if err != nil {
			return err
		}
		defer cleanup()

		xmlDesc, err := tool.NetDumpXML(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to dump network %s: %w", args[0], err)
		}
		fmt.Println(xmlDesc)
		return nil
	},
}

var defineCmd = &cobra.Command{
	Use:   "define <config.yaml>",
	Short: "Define a network from a configuration file",
	Long: `Define a persistent virtual network from a YAML configuration file.

The network is registered with libvirt but not started. Use the start
command, or sync for the full define-and-start flow.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(args[0])
		if err != nil {
			return err
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
		if err := n.Define(cmd.Context()); err != nil {
			return fmt.Errorf("failed to define network: %w", err)
		}

		fmt.Printf("✓ Network %s defined\n", cfg.Name)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create <config.yaml>",
	Short: "Create a transient network from a configuration file",
	Long: `Create and start a transient virtual network from a YAML
configuration file.

Transient networks are not written to the persistent store and vanish
when destroyed or when the daemon restarts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(args[0])
		if err != nil {
			return err
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
		if err := n.Create(cmd.Context()); err != nil {
			return fmt.Errorf("failed to create network: %w", err)
		}

		fmt.Printf("✓ Network %s created\n", cfg.Name)
		return nil
	},
}

var undefineCmd = &cobra.Command{
	Use:   "undefine <network-name>",
	Short: "Remove a network from the persistent store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, cleanup, err := newTool()
		if err != nil {
			return err
		}
		defer cleanup()

		n := netxml.NewNetwork(args[0], tool)
		if err := n.Undefine(cmd.Context()); err != nil {
			return fmt.Errorf("failed to undefine network %s: %w", args[0], err)
		}

		fmt.Printf("✓ Network %s undefined\n", args[0])
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start <network-name>",
	Short: "Activate a defined network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, cleanup, err := newTool()
		if err != nil {
			return err
		}
		defer cleanup()

		n := netxml.NewNetwork(args[0], tool)
		if err := n.Start(cmd.Context()); err != nil {
			return fmt.Errorf("failed to start network %s: %w", args[0], err)
		}

		fmt.Printf("✓ Network %s started\n", args[0])
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <network-name>",
	Short: "Deactivate a running network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, cleanup, err := newTool()
		if err != nil {
			return err
		}
		defer cleanup()

		n := netxml.NewNetwork(args[0], tool)
		if err := n.Stop(cmd.Context()); err != nil {
			return fmt.Errorf("failed to stop network %s: %w", args[0], err)
		}

		fmt.Printf("✓ Network %s stopped\n", args[0])
		return nil
	},
}

var autostartDisable bool

var autostartCmd = &cobra.Command{
	Use:   "autostart <network-name>",
	Short: "Enable or disable autostart for a network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, cleanup, err := newTool()
		if err != nil {
			return err
		}
		defer cleanup()

		n := netxml.NewNetwork(args[0], tool)
		if err := n.SetAutostart(cmd.Context(), !autostartDisable); err != nil {
			return fmt.Errorf("failed to set autostart for network %s: %w", args[0], err)
		}

		if autostartDisable {
			fmt.Printf("✓ Network %s autostart disabled\n", args[0])
		} else {
			fmt.Printf("✓ Network %s autostart enabled\n", args[0])
		}
		return nil
	},
}

var uuidCmd = &cobra.Command{
	Use:   "uuid <network-name>",
	Short: "Print a network's UUID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, cleanup, err := newTool()
		if err != nil {
			return err
		}
		defer cleanup()

		uuid, err := netxml.GetUUIDByName(cmd.Context(), tool, args[0])
		if err != nil {
			return fmt.Errorf("failed to get UUID for network %s: %w", args[0], err)
		}
		fmt.Println(uuid)
		return nil
	},
}

func init() {
	autostartCmd.Flags().BoolVar(&autostartDisable, "disable", false,
		"disable autostart instead of enabling it")
}
