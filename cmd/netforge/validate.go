package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmahoney/netforge/internal/config"
	"github.com/kmahoney/netforge/internal/virsh"
)

var validateSchema bool

var validateCmd = &cobra.Command{
	Use:   "validate <config.yaml>",
	Short: "Validate a network configuration file",
	Long: `Validate a network configuration file without touching libvirt.

Checks the YAML structure and field values. With --schema the
generated XML document is additionally checked against the libvirt
schema using virt-xml-validate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(args[0])
		if err != nil {
			return err
		}

		n, err := cfg.Build(nil)
		if err != nil {
			return fmt.Errorf("failed to build network: %w", err)
		}

		if validateSchema {
			xmlDesc, err := n.XML()
			if err != nil {
				return err
			}
			runner := &virsh.ExecRunner{Binary: "virt-xml-validate"}
			if err := virsh.ValidateXML(cmd.Context(), runner, xmlDesc); err != nil {
				return fmt.Errorf("schema validation failed: %w", err)
			}
		}

		fmt.Printf("✓ Configuration %s is valid\n", args[0])
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateSchema, "schema", false,
		"also validate the generated XML against the libvirt schema")
}
