package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/assets"
	"github.com/eykd/crnodes/internal/config"
	"github.com/eykd/crnodes/internal/nodes"
	"github.com/eykd/crnodes/internal/nodes/ops"
)

// ResolveIO handles I/O for the resolve-assets command.
type ResolveIO interface {
	StateIO
	// Importer returns the importer configured by cfg, or nil when importing
	// is disabled.
	Importer(cfg config.Config) assets.Importer
}

// NewResolveAssetsCmd creates the resolve-assets subcommand.
func NewResolveAssetsCmd(io ResolveIO) *cobra.Command {
	var (
		properties []string
		jsonMode   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve-assets <contextPath>",
		Short: "Replace asset references in node properties by asset identities",
		Long: "Resolve the asset references held in the given properties of a node. References\n" +
			"to external asset sources (\"source/identifier\") are imported through the\n" +
			"configured asset import endpoint first. The node is updated with a MERGE.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if len(properties) == 0 {
				return fmt.Errorf("at least one --property is required")
			}
			ctx := cmd.Context()

			s, err := openSession(cmd, io)
			if err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeIOOrParseFailure, "", err)
			}
			defer s.close()

			node, ok := nodes.NodeByContextPath(s.state(), path)
			if !ok {
				return emitFailureAndError(cmd, jsonMode, CodeCommandRejected, path,
					fmt.Errorf("%w: %s", ops.ErrNodeNotFound, path))
			}
			if err := checkEditPolicy(node, properties); err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeCommandRejected, path, err)
			}

			resolved, count, err := resolveProperties(cmd, io, s, node, properties)
			if err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeCommandRejected, path, err)
			}

			// MERGE overwrites children and matchesCurrentDimensions, so the
			// patch carries the current values.
			mcd := node.MatchesCurrentDimensions
			patch := nodes.NodePatch{
				Properties:               resolved,
				Children:                 nodes.CloneChildren(node.Children),
				MatchesCurrentDimensions: &mcd,
			}
			if _, err := s.store.Dispatch(ctx, ops.Merge{NodeMap: nodes.PatchMap{path: patch}}); err != nil {
				return emitFailureAndError(cmd, jsonMode, CodeCommandRejected, path, err)
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
			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d asset references on %s\n", count, sanitizePath(path))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&properties, "property", nil, "property holding asset references (repeatable)")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Output result as JSON")

	return cmd
}

// checkEditPolicy refuses edits of properties the node's policy disallows.
func checkEditPolicy(n *nodes.Node, properties []string) error {
	if !n.CanEdit() {
		return fmt.Errorf("%w: %s cannot be edited", errPolicyDenied, n.ContextPath)
	}
	for _, p := range properties {
		if !n.AllowsProperty(p) {
			return fmt.Errorf("%w: property %s of %s cannot be edited", errPolicyDenied, p, n.ContextPath)
		}
	}
	return nil
}

// resolveProperties resolves the references of every property in one
// concurrent batch and returns the new property values with the number of
// references resolved.
func resolveProperties(cmd *cobra.Command, io ResolveIO, s *session, n *nodes.Node, properties []string) (map[string]any, int, error) {
	type span struct {
		name     string
		from, to int
		many     bool
	}
	var (
		refs  []assets.Reference
		spans []span
	)
	for _, p := range properties {
		value, ok := n.Properties[p]
		if !ok || value == nil {
			return nil, 0, fmt.Errorf("property %s is not set on %s", p, n.ContextPath)
		}
		parsed, many, err := assets.ParseProperty(value)
		if err != nil {
			return nil, 0, fmt.Errorf("property %s: %w", p, err)
		}
		spans = append(spans, span{name: p, from: len(refs), to: len(refs) + len(parsed), many: many})
		refs = append(refs, parsed...)
	}

	ids, err := assets.Resolve(cmd.Context(), io.Importer(s.cfg), refs)
	if err != nil {
		return nil, 0, err
	}
	out := make(map[string]any, len(spans))
	for _, sp := range spans {
		out[sp.name] = assets.PropertyValue(ids[sp.from:sp.to], sp.many)
	}
	return out, len(refs), nil
}
