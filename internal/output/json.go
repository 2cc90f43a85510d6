package output

import (
	"encoding/json"
	"fmt"
)

// JSONFormatter formats networks as JSON.
type JSONFormatter struct{}

// FormatNetwork formats a single network as JSON.
func (f *JSONFormatter) FormatNetwork(info *NetworkInfo) (string, error) {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal network to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatNetworkList formats a list of networks as a JSON array.
func (f *JSONFormatter) FormatNetworkList(infos []*NetworkInfo) (string, error) {
	if len(infos) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal networks to JSON: %w", err)
	}
	return string(data) + "\n", nil
}
