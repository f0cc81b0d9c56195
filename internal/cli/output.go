package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// printResult печатает v как JSON или текстом через text
func printResult(w io.Writer, format string, v interface{}, text func(w io.Writer)) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func writeLine(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}
