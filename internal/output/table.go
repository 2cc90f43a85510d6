package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// TableFormatter formats networks as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatNetwork formats a single network as a table row.
func (f *TableFormatter) FormatNetwork(info *NetworkInfo) (string, error) {
	return f.FormatNetworkList([]*NetworkInfo{info})
}

// FormatNetworkList formats a list of networks as a table.
func (f *TableFormatter) FormatNetworkList(infos []*NetworkInfo) (string, error) {
	if len(infos) == 0 {
		return "No networks found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tSTATE\tAUTOSTART\tPERSISTENT\tBRIDGE\tFORWARD\tADDRESSES")
	}

	for _, info := range infos {
		state := "inactive"
		if info.Active {
			state = "active"
		}

		bridge := info.Bridge
		if bridge == "" {
			bridge = "-"
		}
		forward := info.Forward
		if forward == "" {
			forward = "isolated"
		}
		addresses := "-"
		if len(info.Addresses) > 0 {
			addresses = strings.Join(info.Addresses, ",")
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			info.Name, state, yesNo(info.Autostart), yesNo(info.Persistent),
			bridge, forward, addresses)
	}

	_ = w.Flush()
	return buf.String(), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
