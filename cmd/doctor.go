package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/nodes"
)

// NewDoctorCmd creates the doctor subcommand.
func NewDoctorCmd(io StateIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "doctor",
		Short:        "Check the saved node graph for structural inconsistencies",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")

			s, err := openSession(cmd, io)
			if err != nil {
				return err
			}
			defer s.close()

			diags := nodes.Audit(s.state())
			if jsonMode {
				if diags == nil {
					diags = []nodes.Diagnostic{}
				}
				_ = json.NewEncoder(cmd.OutOrStdout()).Encode(diags)
			} else {
				// Findings are the report itself, so they go to stdout.
				writeDiagnostics(cmd.OutOrStdout(), diags)
			}

			if nodes.HasErrors(diags) {
				return fmt.Errorf("node graph has integrity errors")
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "output diagnostics as JSON array")

	return cmd
}
