package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/nodes"
)

// NewShowCmd creates the show subcommand.
func NewShowCmd(io StateIO) *cobra.Command {
	var (
		children  bool
		ancestors bool
		focused   bool
		clipboard bool
	)

	cmd := &cobra.Command{
		Use:   "show [contextPath]",
		Short: "Print a node, its children or ancestors as JSON",
		Long: "Print the node stored at contextPath. With --children print its loaded\n" +
			"children in order, with --ancestors its ancestors from the parent upwards.\n" +
			"--focused and --clipboard print the focused or clipboard node instead.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (focused || clipboard) || (focused && clipboard) {
				return fmt.Errorf("give either a context path or one of --focused, --clipboard")
			}

			s, err := openSession(cmd, io)
			if err != nil {
				return err
			}
			defer s.close()
			state := s.state()

			var (
				path nodes.ContextPath
				node *nodes.Node
				ok   bool
			)
			switch {
			case focused:
				node, ok = nodes.FocusedNode(state)
				path = state.Focused.ContextPath
			case clipboard:
				node, ok = nodes.ClipboardNode(state)
				path = state.Clipboard
			default:
				path = args[0]
				node, ok = nodes.NodeByContextPath(state, path)
			}
			if !ok {
				if path == "" {
					return fmt.Errorf("nothing selected")
				}
				return fmt.Errorf("node %s not found", sanitizePath(path))
			}

			var out any = node
			switch {
			case children:
				out = nonNil(nodes.ChildrenOf(state, path))
			case ancestors:
				out = nonNil(nodes.AncestorsOf(state, path))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&children, "children", false, "print the node's loaded children")
	cmd.Flags().BoolVar(&ancestors, "ancestors", false, "print the node's loaded ancestors")
	cmd.Flags().BoolVar(&focused, "focused", false, "select the focused node")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "select the clipboard node")
	cmd.MarkFlagsMutuallyExclusive("children", "ancestors")

	return cmd
}

func nonNil(ns []*nodes.Node) []*nodes.Node {
	if ns == nil {
		return []*nodes.Node{}
	}
	return ns
}
