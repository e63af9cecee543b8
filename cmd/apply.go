package cmd

import (
	"fmt"
	"reflect"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/nodes"
	"github.com/eykd/crnodes/internal/nodes/ops"
	"github.com/eykd/crnodes/internal/store"
)

// ApplyIO handles I/O for the apply command.
type ApplyIO interface {
	StateIO
	ReadFile(path string) ([]byte, error)
}

// NewApplyCmd creates the apply subcommand.
func NewApplyCmd(io ApplyIO) *cobra.Command {
	var (
		jsonMode bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "apply <script>",
		Short: "Apply a script of commands to the node graph",
		Long: "Apply a YAML or JSON list of {type, payload} commands in order. The script is\n" +
			"all or nothing: when a command is rejected nothing is saved. With --dry-run the\n" +
			"script is checked against the saved state and nothing is written.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptPath := args[0]
			ctx := cmd.Context()

			data, err := io.ReadFile(scriptPath)
			if err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeIOOrParseFailure, scriptPath, err)
			}
			cmds, err := ops.DecodeScript(data)
			if err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeIOOrParseFailure, scriptPath, err)
			}

			s, err := openSession(cmd, io)
			if err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeIOOrParseFailure, "", err)
			}
			defer s.close()

			if dryRun {
				return dryRunScript(cmd, s, cmds, jsonMode)
			}

			restored := lastEntryID(s.store.Journal())
			unsubscribe := s.store.Subscribe(func(e store.Entry, _, next nodes.State) {
				glog.V(1).Infof("[apply]%s changed = %t nodes = %d\n", e.Type, e.Changed, len(next.ByContextPath))
			})
			defer unsubscribe()

			for i, c := range cmds {
				if _, err := s.store.Dispatch(ctx, c); err != nil {
					return emitFailureAndError(cmd, jsonMode, CodeCommandRejected, "",
						fmt.Errorf("command %d (%s): %w", i, c.Type(), err))
				}
			}

			changed := s.changed()
			if changed {
				if err := s.save(ctx); err != nil {
					return emitFailureAndError(cmd, jsonMode, CodeIOOrParseFailure, "", err)
				}
			}

			if jsonMode {
				return writeOpResult(cmd, OpResult{
					Changed: changed,
					Journal: entriesAfter(s.store.Journal(), restored),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d commands from %s (signals: %d)\n",
				len(cmds), sanitizePath(scriptPath), countSignals(cmds))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonMode, "json", false, "Output result as JSON")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check the script without saving")

	return cmd
}

// dryRunScript runs cmds through the transition function alone and reports
// whether they would change the saved state.
func dryRunScript(cmd *cobra.Command, s *session, cmds []ops.Command, jsonMode bool) error {
	next, failed, err := ops.ApplyAll(s.state(), cmds)
	if err != nil {
		return emitFailureAndError(cmd, jsonMode, CodeCommandRejected, "",
			fmt.Errorf("command %d (%s): %w", failed, cmds[failed].Type(), err))
	}
	changed := !reflect.DeepEqual(s.loaded, next)
	if jsonMode {
		return writeResult(cmd, changed, nil)
	}
	verdict := "leave the graph unchanged"
	if changed {
		verdict = "change the graph"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d commands would %s\n", len(cmds), verdict)
	return nil
}

func countSignals(cmds []ops.Command) int {
	n := 0
	for _, c := range cmds {
		if ops.IsSignal(c) {
			n++
		}
	}
	return n
}

func lastEntryID(journal []store.Entry) string {
	if len(journal) == 0 {
		return ""
	}
	return journal[len(journal)-1].ID
}

// entriesAfter returns the entries recorded after the one with id. When id
// fell out of the bounded journal every entry is newer.
func entriesAfter(journal []store.Entry, id string) []store.Entry {
	for i, e := range journal {
		if e.ID == id {
			return journal[i+1:]
		}
	}
	return journal
}
