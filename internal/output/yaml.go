package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats networks as YAML.
type YAMLFormatter struct{}

// FormatNetwork formats a single network as YAML.
func (f *YAMLFormatter) FormatNetwork(info *NetworkInfo) (string, error) {
	data, err := yaml.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to marshal network to YAML: %w", err)
	}
	return string(data), nil
}

// FormatNetworkList formats a list of networks as a YAML stream
// (multiple documents separated by ---).
func (f *YAMLFormatter) FormatNetworkList(infos []*NetworkInfo) (string, error) {
	if len(infos) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	for i, info := range infos {
		data, err := yaml.Marshal(info)
		if err != nil {
			return "", fmt.Errorf("failed to marshal network %s to YAML: %w", info.Name, err)
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(data)
	}
	return buf.String(), nil
}
