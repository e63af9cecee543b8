package ops

// Tests for the move command.

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eykd/crnodes/internal/nodes"
)

// moveState returns:
//
//	root
//	├── root/a
//	├── root/b
//	│   └── root/b/x
//	└── root/c
func moveState() nodes.State {
	s := nodes.DefaultState()
	s.ByContextPath = nodes.NodeMap{
		"root": {ContextPath: "root", Children: []nodes.ChildRef{
			{ContextPath: "root/a", NodeType: "Page"},
			{ContextPath: "root/b", NodeType: "Page"},
			{ContextPath: "root/c", NodeType: "Page"},
		}},
		"root/a":   {ContextPath: "root/a", Depth: 1},
		"root/b":   {ContextPath: "root/b", Depth: 1, Children: []nodes.ChildRef{{ContextPath: "root/b/x", NodeType: "Text"}}},
		"root/b/x": {ContextPath: "root/b/x", Depth: 2},
		"root/c":   {ContextPath: "root/c", Depth: 1},
	}
	return s
}

func assertChildren(t *testing.T, s nodes.State, path nodes.ContextPath, want ...nodes.ContextPath) {
	t.Helper()
	got := childPaths(s.ByContextPath[path])
	if want == nil {
		want = []nodes.ContextPath{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("children of %s = %v, want %v", path, got, want)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Same parent
// ──────────────────────────────────────────────────────────────────────────────

// TestMove_AfterSiblingInScenarioTree verifies the two-child scenario: moving
// root/a after root/b yields [root/b, root/a].
func TestMove_AfterSiblingInScenarioTree(t *testing.T) {
	s := mustApply(t, treeState(), Move{NodeToBeMoved: "root/a", TargetNode: "root/b", Position: nodes.PositionAfter})
	assertChildren(t, s, "root", "root/b", "root/a")
}

func TestMove_SameParentPositions(t *testing.T) {
	tests := []struct {
		name   string
		move   Move
		expect []nodes.ContextPath
	}{
		{"first before last", Move{"root/a", "root/c", nodes.PositionBefore}, []nodes.ContextPath{"root/b", "root/a", "root/c"}},
		{"first after last", Move{"root/a", "root/c", nodes.PositionAfter}, []nodes.ContextPath{"root/b", "root/c", "root/a"}},
		{"last before first", Move{"root/c", "root/a", nodes.PositionBefore}, []nodes.ContextPath{"root/c", "root/a", "root/b"}},
		{"last after first", Move{"root/c", "root/a", nodes.PositionAfter}, []nodes.ContextPath{"root/a", "root/c", "root/b"}},
		{"middle into parent", Move{"root/b", "root", nodes.PositionInto}, []nodes.ContextPath{"root/a", "root/c", "root/b"}},
		{"before self neighbour", Move{"root/b", "root/c", nodes.PositionBefore}, []nodes.ContextPath{"root/a", "root/b", "root/c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustApply(t, moveState(), tt.move)
			assertChildren(t, s, "root", tt.expect...)
		})
	}
}

// TestMove_SameParentRoundTrip verifies that moving a node away and back to its
// original index restores the original order.
func TestMove_SameParentRoundTrip(t *testing.T) {
	orig := moveState()
	s := mustApply(t, orig, Move{NodeToBeMoved: "root/a", TargetNode: "root", Position: nodes.PositionInto})
	assertChildren(t, s, "root", "root/b", "root/c", "root/a")
	s = mustApply(t, s, Move{NodeToBeMoved: "root/a", TargetNode: "root/b", Position: nodes.PositionBefore})
	if diff := cmp.Diff(orig.ByContextPath["root"].Children, s.ByContextPath["root"].Children); diff != "" {
		t.Errorf("round trip children mismatch (-want +got):\n%s", diff)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Across parents
// ──────────────────────────────────────────────────────────────────────────────

func TestMove_IntoOtherParent(t *testing.T) {
	s := mustApply(t, moveState(), Move{NodeToBeMoved: "root/a", TargetNode: "root/b", Position: nodes.PositionInto})
	assertChildren(t, s, "root", "root/b", "root/c")
	assertChildren(t, s, "root/b", "root/b/x", "root/a")
}

func TestMove_NextToNodeUnderOtherParent(t *testing.T) {
	s := mustApply(t, moveState(), Move{NodeToBeMoved: "root/b/x", TargetNode: "root/a", Position: nodes.PositionAfter})
	assertChildren(t, s, "root", "root/a", "root/b/x", "root/b", "root/c")
	assertChildren(t, s, "root/b")
}

func TestMove_KeepsEntryNodeType(t *testing.T) {
	s := mustApply(t, moveState(), Move{NodeToBeMoved: "root/b/x", TargetNode: "root/a", Position: nodes.PositionBefore})
	root := s.ByContextPath["root"]
	if root.Children[0] != (nodes.ChildRef{ContextPath: "root/b/x", NodeType: "Text"}) {
		t.Errorf("moved entry = %+v", root.Children[0])
	}
}

func TestMove_DoesNotRecomputeMovedNode(t *testing.T) {
	before := moveState()
	s := mustApply(t, before, Move{NodeToBeMoved: "root/b/x", TargetNode: "root/a", Position: nodes.PositionAfter})
	if s.ByContextPath["root/b/x"] != before.ByContextPath["root/b/x"] {
		t.Error("the moved node itself must not be rewritten")
	}
	if s.ByContextPath["root/b/x"].Depth != 2 {
		t.Errorf("depth = %d, moves do not recompute depth", s.ByContextPath["root/b/x"].Depth)
	}
}

func TestMove_LeavesPreviousSnapshotIntact(t *testing.T) {
	before := moveState()
	_ = mustApply(t, before, Move{NodeToBeMoved: "root/a", TargetNode: "root/b", Position: nodes.PositionInto})
	assertChildren(t, before, "root", "root/a", "root/b", "root/c")
	assertChildren(t, before, "root/b", "root/b/x")
}

// ──────────────────────────────────────────────────────────────────────────────
// Errors
// ──────────────────────────────────────────────────────────────────────────────

func TestMove_Errors(t *testing.T) {
	tests := []struct {
		name string
		move Move
		want error
	}{
		{"next to root", Move{"root/a", "root", nodes.PositionBefore}, ErrNoParent},
		{"move root", Move{"root", "root/a", nodes.PositionAfter}, ErrNoParent},
		{"into itself", Move{"root/b", "root/b", nodes.PositionInto}, ErrCycle},
		{"into descendant", Move{"root/b", "root/b/x", nodes.PositionInto}, ErrCycle},
		{"missing source parent", Move{"ghost/a", "root/a", nodes.PositionAfter}, ErrNodeNotFound},
		{"missing destination", Move{"root/a", "root/zzz", nodes.PositionInto}, ErrNodeNotFound},
		{"source not listed", Move{"root/q", "root/a", nodes.PositionAfter}, ErrNotAChild},
		{"target not listed", Move{"root/a", "root/b/q", nodes.PositionAfter}, ErrTargetNotFound},
		{"bad position", Move{"root/a", "root/b", "beside"}, ErrInvalidPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := moveState()
			after, err := Apply(before, tt.move)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("failed move must return the state unchanged (-before +after):\n%s", diff)
			}
		})
	}
}
