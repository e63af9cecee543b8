package nodes

import "testing"

func hasCode(diags []Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestAudit_CleanStateHasNoDiagnostics(t *testing.T) {
	s := State{
		ByContextPath: NodeMap{
			"root": {
				ContextPath:   "root",
				Identifier:    "0190b1c6-3b1f-7c7e-9d34-6a3f0e1c2b4d",
				IsFullyLoaded: true,
				Children:      []ChildRef{{ContextPath: "root/a"}},
			},
			"root/a": {ContextPath: "root/a"},
		},
		SiteNode: "root",
	}
	if diags := Audit(s); len(diags) != 0 {
		t.Errorf("Audit() = %v, want none", diags)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Errors
// ──────────────────────────────────────────────────────────────────────────────

func TestAudit_DanglingChildOfFullyLoadedNode(t *testing.T) {
	s := State{ByContextPath: NodeMap{
		"root": {IsFullyLoaded: true, Children: []ChildRef{{ContextPath: "root/gone"}}},
	}}
	diags := Audit(s)
	if !hasCode(diags, CodeDanglingChild) {
		t.Errorf("expected %s, got %v", CodeDanglingChild, diags)
	}
	if !HasErrors(diags) {
		t.Error("HasErrors() = false, want true")
	}
}

func TestAudit_PartiallyLoadedNodeToleratesMissingChildren(t *testing.T) {
	s := State{ByContextPath: NodeMap{
		"root": {IsFullyLoaded: false, Children: []ChildRef{{ContextPath: "root/later"}}},
	}}
	if diags := Audit(s); hasCode(diags, CodeDanglingChild) {
		t.Errorf("partial load should be tolerated, got %v", diags)
	}
}

func TestAudit_ClipboardAndFocusMustBeSetTogether(t *testing.T) {
	s := State{
		ByContextPath: NodeMap{"root": {}},
		Clipboard:     "root",
		Focused:       Focused{FusionPath: "page/main"},
	}
	diags := Audit(s)
	if !hasCode(diags, CodeClipboardInconsistent) {
		t.Errorf("expected %s, got %v", CodeClipboardInconsistent, diags)
	}
	if !hasCode(diags, CodeFocusInconsistent) {
		t.Errorf("expected %s, got %v", CodeFocusInconsistent, diags)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Warnings
// ──────────────────────────────────────────────────────────────────────────────

func TestAudit_Warnings(t *testing.T) {
	s := State{
		ByContextPath: NodeMap{
			"root":   {Identifier: "not-a-uuid", Children: []ChildRef{{ContextPath: "root/a"}}},
			"root/b": {ContextPath: "root/elsewhere", Children: []ChildRef{{ContextPath: "root/a"}}},
			"root/a": {},
		},
		SiteNode:      "site",
		ToBeRemoved:   "root/gone",
		Clipboard:     "root/gone",
		ClipboardMode: ClipboardMove,
	}
	diags := Audit(s)
	for _, code := range []string{
		CodeInvalidIdentifier, CodeContextPathMismatch, CodeMultipleParents,
		CodeMissingRoot, CodeMissingReference,
	} {
		if !hasCode(diags, code) {
			t.Errorf("expected %s, got %v", code, diags)
		}
	}
	if HasErrors(diags) {
		t.Errorf("expected warnings only, got %v", diags)
	}
}

func TestAudit_RemovalForbiddenByPolicy(t *testing.T) {
	s := State{
		ByContextPath: NodeMap{
			"root":   {ContextPath: "root", Children: []ChildRef{{ContextPath: "root/a"}}},
			"root/a": {ContextPath: "root/a", Policy: &Policy{CanEdit: true}},
		},
		ToBeRemoved: "root/a",
	}
	diags := Audit(s)
	if len(diags) != 1 || diags[0].Code != CodeRemovalForbidden || diags[0].Path != "root/a" {
		t.Errorf("Audit() = %v, want one %s on root/a", diags, CodeRemovalForbidden)
	}

	s.ByContextPath["root/a"] = &Node{ContextPath: "root/a", Policy: &Policy{CanRemove: true}}
	if diags := Audit(s); hasCode(diags, CodeRemovalForbidden) {
		t.Errorf("Audit() = %v, want no %s when removal is allowed", diags, CodeRemovalForbidden)
	}
}

func TestAudit_ErrorsSortBeforeWarnings(t *testing.T) {
	s := State{
		ByContextPath: NodeMap{
			"a": {Identifier: "nope"},
			"z": {IsFullyLoaded: true, Children: []ChildRef{{ContextPath: "z/gone"}}},
		},
	}
	diags := Audit(s)
	if len(diags) < 2 {
		t.Fatalf("expected at least 2 diagnostics, got %v", diags)
	}
	if diags[0].Severity != SeverityError {
		t.Errorf("first diagnostic should be an error, got %v", diags[0])
	}
}
