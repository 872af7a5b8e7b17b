package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Export formats accepted by --format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// writeExport encodes v in format. YAML output goes through the JSON form
// so both formats share field names.
func writeExport(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format %q (json, yaml)", format)
	}
}
