package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/nodes"
	"github.com/eykd/crnodes/internal/nodes/ops"
)

// NewMoveCmd creates the move subcommand.
func NewMoveCmd(io StateIO) *cobra.Command {
	var (
		source   string
		target   string
		position string
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:          "move",
		Short:        "Move a node into, before or after another node",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" || target == "" {
				return fmt.Errorf("--source and --target are required")
			}
			ctx := cmd.Context()

			s, err := openSession(cmd, io)
			if err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeIOOrParseFailure, "", err)
			}
			defer s.close()

			m := ops.Move{
				NodeToBeMoved: source,
				TargetNode:    target,
				Position:      nodes.InsertPosition(position),
			}
			if err := checkMovePolicy(s.state(), m); err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeCommandRejected, source, err)
			}
			if _, err := s.store.Dispatch(ctx, m); err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeCommandRejected, source, err)
			}

			changed := s.changed()
			if changed {
				if err := s.save(ctx); err != nil {
					return emitFailureAndError(cmd, jsonMode, CodeIOOrParseFailure, "", err)
				}
			}

			if jsonMode {
				return writeResult(cmd, changed, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s %s %s\n", sanitizePath(source), position, sanitizePath(target))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "context path of the node to move")
	cmd.Flags().StringVar(&target, "target", "", "context path of the target node")
	cmd.Flags().StringVar(&position, "position", string(nodes.PositionInto), "into, before or after")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Output result as JSON")

	return cmd
}

// errPolicyDenied reports an edit the node's policy forbids.
var errPolicyDenied = errors.New("denied by node policy")

// checkMovePolicy refuses a move when the destination parent's policy
// disallows the moved node's type. Missing nodes are left to the transition
// to report.
func checkMovePolicy(st nodes.State, m ops.Move) error {
	if !m.Position.Valid() {
		return nil
	}
	dest := m.TargetNode
	if m.Position != nodes.PositionInto {
		dest = nodes.ParentContextPath(m.TargetNode)
	}
	parent, ok := nodes.NodeByContextPath(st, dest)
	if !ok {
		return nil
	}
	nodeType := movedNodeType(st, m.NodeToBeMoved)
	if nodeType != "" && !parent.AllowsChildNodeType(nodeType) {
		return fmt.Errorf("%w: %s does not allow child nodes of type %s", errPolicyDenied, dest, nodeType)
	}
	return nil
}

// movedNodeType returns the node type of path, falling back to the child entry
// of its parent when the node itself is not loaded.
func movedNodeType(st nodes.State, path nodes.ContextPath) nodes.NodeTypeName {
	if n, ok := nodes.NodeByContextPath(st, path); ok && n.NodeType != "" {
		return n.NodeType
	}
	if parent, ok := nodes.NodeByContextPath(st, nodes.ParentContextPath(path)); ok {
		if i := parent.ChildIndex(path); i >= 0 {
			return parent.Children[i].NodeType
		}
	}
	return ""
}
