package cmd

import (
	"encoding/json"
	"os"
)

// printJSON renders v as indented JSON to stdout, the --output json
// counterpart to each command's default tabwriter table.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
