package ops

import (
	"maps"

	"github.com/eykd/crnodes/internal/nodes"
)

// mergeNodes returns byPath with every patch merged onto the node at its path
// by merge. An empty patch map returns byPath itself.
func mergeNodes(byPath nodes.NodeMap, patches nodes.PatchMap, merge func(*nodes.Node, nodes.NodePatch) *nodes.Node) nodes.NodeMap {
	if len(patches) == 0 {
		return byPath
	}
	out := maps.Clone(byPath)
	if out == nil {
		out = nodes.NodeMap{}
	}
	for path, p := range patches {
		out[path] = merge(byPath[path], p)
	}
	return out
}

// mergeNode applies the MERGE field policy:
//
//   - scalar fields and uri are overwritten when present in the patch
//   - properties are overwritten key by key; other keys are kept
//   - policy is replaced wholesale when present
//   - children and matchesCurrentDimensions are always overwritten, because the
//     backend recomputes them and partial values would be meaningless
//
// existing may be nil, in which case the node is built from the patch alone.
func mergeNode(existing *nodes.Node, p nodes.NodePatch) *nodes.Node {
	n := applyPatch(existing, p, false)
	n.Children = nodes.CloneChildren(p.Children)
	n.MatchesCurrentDimensions = p.MatchesCurrentDimensions != nil && *p.MatchesCurrentDimensions
	return n
}

// deepMergeNode applies the SET_STATE merge: every field absent from the patch
// is kept, children and matchesCurrentDimensions included, and nested property
// objects are merged recursively.
func deepMergeNode(existing *nodes.Node, p nodes.NodePatch) *nodes.Node {
	return applyPatch(existing, p, true)
}

// nodeFromPatch builds a node from the present fields of p.
func nodeFromPatch(p nodes.NodePatch) *nodes.Node {
	return applyPatch(nil, p, false)
}

// applyPatch returns a copy of existing with the present fields of p applied.
func applyPatch(existing *nodes.Node, p nodes.NodePatch, deepProperties bool) *nodes.Node {
	n := &nodes.Node{}
	if existing != nil {
		n = existing.Clone()
	}

	if p.ContextPath != nil {
		n.ContextPath = *p.ContextPath
	}
	if p.Name != nil {
		n.Name = *p.Name
	}
	if p.Identifier != nil {
		n.Identifier = *p.Identifier
	}
	if p.NodeType != nil {
		n.NodeType = *p.NodeType
	}
	if p.Label != nil {
		n.Label = *p.Label
	}
	if p.IsAutoCreated != nil {
		n.IsAutoCreated = *p.IsAutoCreated
	}
	if p.Depth != nil {
		n.Depth = *p.Depth
	}
	if p.IsFullyLoaded != nil {
		n.IsFullyLoaded = *p.IsFullyLoaded
	}
	if p.URI != nil {
		n.URI = *p.URI
	}
	if p.Properties != nil {
		if n.Properties == nil {
			n.Properties = make(map[string]any, len(p.Properties))
		}
		for k, v := range p.Properties {
			if deepProperties {
				v = mergeValue(n.Properties[k], v)
			}
			n.Properties[k] = v
		}
	}
	if p.Policy != nil {
		n.Policy = p.Policy.Clone()
	}
	if p.Children != nil {
		n.Children = nodes.CloneChildren(p.Children)
	}
	if p.MatchesCurrentDimensions != nil {
		n.MatchesCurrentDimensions = *p.MatchesCurrentDimensions
	}
	return n
}

// mergeValue merges incoming onto existing when both are objects; otherwise
// incoming wins. existing is never modified.
func mergeValue(existing, incoming any) any {
	em, ok := existing.(map[string]any)
	if !ok {
		return incoming
	}
	im, ok := incoming.(map[string]any)
	if !ok {
		return incoming
	}
	out := maps.Clone(em)
	for k, v := range im {
		out[k] = mergeValue(em[k], v)
	}
	return out
}
