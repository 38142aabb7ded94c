package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// writeJSON encodes v to path, or to w when path is empty or "-".
func writeJSON(w io.Writer, path string, v any, pretty bool) error {
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
