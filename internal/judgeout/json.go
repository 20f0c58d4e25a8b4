// Package judgeout renders a GradedTask for human consumption: indented
// JSON for machine consumers, and an ANSI-colored summary for a terminal.
package judgeout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nughm3/gojudge/internal/judge"
)

// WriteJSON serializes result as indented JSON. If path is "-" or empty,
// it writes to stdout.
func WriteJSON(result judge.GradedTask, path string) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode graded task: %w", err)
	}
	return nil
}
