package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/nodes"
	"github.com/eykd/crnodes/internal/store"
)

// Command-level diagnostic codes.
const (
	// CodeCommandRejected reports a command the node graph refused, such as an
	// impossible move.
	CodeCommandRejected = "CRN001"
	// CodeIOOrParseFailure reports unreadable input or state.
	CodeIOOrParseFailure = "CRN009"
)

// OpResult is the JSON output of state-changing commands.
type OpResult struct {
	Version     string             `json:"version"`
	Changed     bool               `json:"changed"`
	Diagnostics []nodes.Diagnostic `json:"diagnostics"`
	// Journal lists the store entries the command produced, apply only.
	Journal []store.Entry `json:"journal,omitempty"`
}

// writeResult encodes an OpResult to stdout.
func writeResult(cmd *cobra.Command, changed bool, diags []nodes.Diagnostic) error {
	return writeOpResult(cmd, OpResult{Changed: changed, Diagnostics: diags})
}

// writeOpResult fills the version and a non-nil diagnostics list, then
// encodes out to stdout.
func writeOpResult(cmd *cobra.Command, out OpResult) error {
	out.Version = "1"
	if out.Diagnostics == nil {
		out.Diagnostics = []nodes.Diagnostic{}
	}
	if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// emitFailureAndError reports origErr as a single error diagnostic with code
// and returns a non-nil error so the process exits non-zero. In JSON mode the
// diagnostic goes to stdout as an OpResult, otherwise to stderr.
func emitFailureAndError(cmd *cobra.Command, jsonMode bool, code string, path string, origErr error) error {
	diags := []nodes.Diagnostic{{Severity: nodes.SeverityError, Code: code, Message: origErr.Error(), Path: path}}
	if jsonMode {
		_ = writeResult(cmd, false, diags)
	} else {
		printDiagnostics(cmd, diags)
	}
	return fmt.Errorf("operation failed: %w", origErr)
}

// printDiagnostics writes each diagnostic to stderr in human-readable form.
func printDiagnostics(cmd *cobra.Command, diags []nodes.Diagnostic) {
	writeDiagnostics(cmd.ErrOrStderr(), diags)
}

// writeDiagnostics writes one "severity: message (CODE)" line per diagnostic.
func writeDiagnostics(w io.Writer, diags []nodes.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s: %s (%s)\n", d.Severity, sanitizePath(d.Message), d.Code)
	}
}

// sanitizePath replaces control characters with '?' so context paths and
// messages cannot inject terminal escapes.
func sanitizePath(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '?'
		}
		return r
	}, s)
}
