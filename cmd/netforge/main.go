package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmahoney/netforge/internal/libvirt"
	"github.com/kmahoney/netforge/internal/netxml"
	"github.com/kmahoney/netforge/internal/output"
	"github.com/kmahoney/netforge/internal/virsh"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "netforge",
	Short: "netforge - Libvirt virtual network management tool",
	Long: `netforge is a CLI tool for managing libvirt virtual networks with
simple YAML configuration.

It provides commands to define, start, synchronize, and inspect
virtual networks, either through the virsh command line tool or
directly over the libvirt socket.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

var (
	flagBackend   string
	flagConnect   string
	flagVirshPath string
	flagSocket    string
	flagOutput    string
	flagNoHeaders bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "exec",
		"tool backend: exec (virsh) or socket (libvirt daemon)")
	rootCmd.PersistentFlags().StringVar(&flagConnect, "connect", "",
		"libvirt connection URI passed to virsh (exec backend)")
	rootCmd.PersistentFlags().StringVar(&flagVirshPath, "virsh", "",
		"virsh binary to invoke (exec backend, default: virsh)")
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "",
		"libvirt socket path (socket backend, default: /var/run/libvirt/libvirt-sock)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "table",
		"output format: table, yaml, or json")
	rootCmd.PersistentFlags().BoolVar(&flagNoHeaders, "no-headers", false,
		"omit headers in table output")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dumpXMLCmd)
	rootCmd.AddCommand(defineCmd)
	rootCmd.AddCommand(undefineCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(autostartCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(uuidCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(nukeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(testConnCmd)
}

// newTool builds the configured backend. The returned cleanup must be
// called when the command is done.
func newTool() (netxml.Tool, func(), error) {
	switch flagBackend {
	case "exec":
		return virsh.NewClient(flagVirshPath, flagConnect), func() {}, nil
	case "socket":
		client, err := libvirt.Connect(flagSocket, 0)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if closeErr := client.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", closeErr)
			}
		}
		return client, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (valid backends: exec, socket)", flagBackend)
	}
}

func newFormatter() (output.Formatter, error) {
	if err := output.ValidateFormat(flagOutput); err != nil {
		return nil, err
	}
	return output.NewFormatter(output.Options{
		Format:    output.Format(flagOutput),
		NoHeaders: flagNoHeaders,
	})
}

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Test libvirt connection",
	Long:  `Test connectivity to the libvirt daemon and display version information.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Testing libvirt connection...")

		client, err := libvirt.Connect(flagSocket, 5*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to libvirt: %w", err)
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", closeErr)
			}
		}()

		fmt.Println("✓ Connected to libvirt daemon")

		if err := client.Ping(); err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}

		version, err := client.Libvirt().ConnectGetLibVersion()
		if err != nil {
			return fmt.Errorf("failed to get libvirt version: %w", err)
		}

		// libvirt returns the version as an integer like 8006000 for 8.6.0
		major := version / 1000000
		minor := (version % 1000000) / 1000
		patch := version % 1000

		fmt.Printf("✓ Libvirt version: %d.%d.%d\n", major, minor, patch)

		networks, err := client.NetStateDict(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list networks: %w", err)
		}

		fmt.Printf("✓ %d network(s) known to the daemon\n", len(networks))
		fmt.Println("\nConnection test successful!")
		return nil
	},
}
