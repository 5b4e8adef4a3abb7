package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rickgao/consensus-export/internal/download"
)

// Console writes one status line per task. It is not safe for concurrent
// use; the downloader notifies observers from a single goroutine.
type Console struct {
	w io.Writer
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Observe implements download.Observer.
func (c *Console) Observe(r download.Result) {
	fmt.Fprintln(c.w, Message(r))
}

// Message renders the status line for a result.
func Message(r download.Result) string {
	subject := fmt.Sprintf("%s (%s)", r.Asset.Label(), r.Task.SnapTime)

	switch r.Outcome {
	case download.Downloaded:
		return fmt.Sprintf("Downloaded file for %s: %s successfully downloaded", subject, strings.Join(r.Files, ", "))
	case download.Skipped:
		return fmt.Sprintf("Skipping %s - no valuation results found", subject)
	default:
		return fmt.Sprintf("Error processing %s: %s. Skipping.", subject, oneLine(r.Err))
	}
}

// oneLine flattens multi-line errors such as errors.Join results.
func oneLine(err error) string {
	if err == nil {
		return "<nil>"
	}
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
