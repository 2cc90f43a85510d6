package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kmahoney/netforge/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List virtual networks",
	Long: `List all virtual networks known to libvirt.

Shows network name, state, autostart and persistence flags, bridge,
forward mode, and addresses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, cleanup, err := newTool()
		if err != nil {
			return err
		}
		defer cleanup()

		formatter, err := newFormatter()
		if err != nil {
			return err
		}

		states, err := tool.NetStateDict(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list networks: %w", err)
		}

		names := make([]string, 0, len(states))
		for name := range states {
			names = append(names, name)
		}
		sort.Strings(names)

		infos := make([]*output.NetworkInfo, 0, len(names))
		for _, name := range names {
			xmlDesc, err := tool.NetDumpXML(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("failed to dump network %s: %w", name, err)
			}
			state := states[name]
			info, err := output.BuildNetworkInfo(xmlDesc, &state)
			if err != nil {
				return fmt.Errorf("failed to parse network %s: %w", name, err)
			}
			infos = append(infos, info)
		}

		out, err := formatter.FormatNetworkList(infos)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}
