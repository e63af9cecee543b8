package ops

import (
	"fmt"
	"maps"
	"slices"

	"github.com/eykd/crnodes/internal/nodes"
)

// applyMove relocates the child entry of m.NodeToBeMoved in the sibling order.
// Only child lists change: the moved node keeps its context path, depth and
// every other stored field. Returns s unchanged on error.
func applyMove(s nodes.State, m Move) (nodes.State, error) {
	source, target := m.NodeToBeMoved, m.TargetNode

	if !m.Position.Valid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidPosition, m.Position)
	}

	// The base node receives the moved entry.
	base := target
	if m.Position != nodes.PositionInto {
		base = nodes.ParentContextPath(target)
		if base == "" {
			return s, fmt.Errorf("%w: target node %q has no parent, cannot move a node next to it", ErrNoParent, target)
		}
	}

	sourceParent := nodes.ParentContextPath(source)
	if sourceParent == "" {
		return s, fmt.Errorf("%w: source node %q has no parent, cannot move it", ErrNoParent, source)
	}

	if base == source || nodes.IsAncestor(source, base) {
		return s, fmt.Errorf("%w: %q into %q", ErrCycle, source, base)
	}

	sourceParentNode, ok := nodes.NodeByContextPath(s, sourceParent)
	if !ok {
		return s, fmt.Errorf("%w: source parent %q", ErrNodeNotFound, sourceParent)
	}
	baseNode, ok := nodes.NodeByContextPath(s, base)
	if !ok {
		return s, fmt.Errorf("%w: destination %q", ErrNodeNotFound, base)
	}

	sourceIndex := sourceParentNode.ChildIndex(source)
	if sourceIndex < 0 {
		return s, fmt.Errorf("%w: %q in %q", ErrNotAChild, source, sourceParent)
	}
	entry := sourceParentNode.Children[sourceIndex]
	remaining := slices.Delete(nodes.CloneChildren(sourceParentNode.Children), sourceIndex, sourceIndex+1)

	// Moving within one parent inserts into the already spliced list, so the
	// target index below accounts for the removal.
	var dest []nodes.ChildRef
	if base == sourceParent {
		dest = remaining
	} else {
		dest = nodes.CloneChildren(baseNode.Children)
	}

	if m.Position == nodes.PositionInto {
		dest = append(dest, entry)
	} else {
		targetIndex := nodes.IndexOfChild(dest, target)
		if targetIndex < 0 {
			return s, fmt.Errorf("%w: %q in %q", ErrTargetNotFound, target, base)
		}
		if m.Position == nodes.PositionAfter {
			targetIndex++
		}
		dest = slices.Insert(dest, targetIndex, entry)
	}

	byPath := maps.Clone(s.ByContextPath)
	if base != sourceParent {
		p := sourceParentNode.Clone()
		p.Children = remaining
		byPath[sourceParent] = p
	}
	b := baseNode.Clone()
	b.Children = dest
	byPath[base] = b

	s.ByContextPath = byPath
	return s, nil
}
