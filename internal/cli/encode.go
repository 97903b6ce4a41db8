package cli

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Encode renders v as indented JSON or YAML. YAML goes through the JSON form
// so both formats share field names.
func Encode(v any, format string) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode: %w", err)
	}
	switch format {
	case "json":
		return append(data, '\n'), nil
	case "yaml":
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("failed to encode: %w", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
