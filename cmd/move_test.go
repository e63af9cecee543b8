package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/eykd/crnodes/internal/nodes"
)

func TestMoveCmd_MovesAfterSibling(t *testing.T) {
	io := newMockStateIO(graphState())
	out, _, err := runCmd(t, NewMoveCmd(io), "--source", "root/a", "--target", "root/b", "--position", "after")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := childOrder(io.backend.state, "root"); got != "root/b,root/a" {
		t.Errorf("children = %s, want root/b,root/a", got)
	}
	if !strings.Contains(out, "Moved root/a after root/b") {
		t.Errorf("stdout = %q", out)
	}
}

func TestMoveCmd_DefaultsToInto(t *testing.T) {
	io := newMockStateIO(graphState())
	if _, _, err := runCmd(t, NewMoveCmd(io), "--source", "root/a", "--target", "root/b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := childOrder(io.backend.state, "root/b"); got != "root/a" {
		t.Errorf("root/b children = %s, want root/a", got)
	}
	if got := childOrder(io.backend.state, "root"); got != "root/b" {
		t.Errorf("root children = %s, want root/b", got)
	}
}

func TestMoveCmd_RejectedMoveJSON(t *testing.T) {
	io := newMockStateIO(graphState())
	out, _, err := runCmd(t, NewMoveCmd(io), "--source", "root/a", "--target", "root", "--position", "before", "--json")
	if err == nil {
		t.Fatal("expected error")
	}
	var res OpResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if res.Changed || len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != CodeCommandRejected {
		t.Errorf("result = %+v", res)
	}
	if io.backend.saves != 0 {
		t.Error("rejected move must not save")
	}
}

func TestMoveCmd_InvalidPosition(t *testing.T) {
	io := newMockStateIO(graphState())
	_, errOut, err := runCmd(t, NewMoveCmd(io), "--source", "root/a", "--target", "root/b", "--position", "beside")
	if err == nil || !strings.Contains(errOut, "invalid insert position") {
		t.Errorf("err = %v, stderr = %q", err, errOut)
	}
}

func TestMoveCmd_RequiresSourceAndTarget(t *testing.T) {
	if _, _, err := runCmd(t, NewMoveCmd(newMockStateIO(graphState())), "--source", "root/a"); err == nil {
		t.Error("expected error without --target")
	}
}

func TestMoveCmd_RefusesTypeDisallowedByDestination(t *testing.T) {
	state := graphState()
	b := *state.ByContextPath["root/b"]
	b.Policy = &nodes.Policy{CanEdit: true, CanRemove: true, DisallowedNodeTypes: []string{"Page"}}
	state.ByContextPath["root/b"] = &b
	io := newMockStateIO(state)

	_, errOut, err := runCmd(t, NewMoveCmd(io), "--source", "root/a", "--target", "root/b")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(errOut, "does not allow child nodes of type Page") || !strings.Contains(errOut, CodeCommandRejected) {
		t.Errorf("stderr = %q", errOut)
	}
	if io.backend.saves != 0 {
		t.Error("refused move must not save")
	}
}

func TestMoveCmd_PolicyChecksParentOfSiblingTarget(t *testing.T) {
	state := graphState()
	b := *state.ByContextPath["root/b"]
	b.Policy = &nodes.Policy{DisallowedNodeTypes: []string{"Page"}}
	state.ByContextPath["root/b"] = &b
	io := newMockStateIO(state)

	// root/b forbids pages below it, but "after root/b" lands in root.
	if _, _, err := runCmd(t, NewMoveCmd(io), "--source", "root/a", "--target", "root/b", "--position", "after"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMoveCmd_SaveFailure(t *testing.T) {
	io := newMockStateIO(graphState())
	io.backend.saveErr = errBoom

	out, _, err := runCmd(t, NewMoveCmd(io), "--source", "root/a", "--target", "root/b", "--position", "after", "--json")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "writing state") || !strings.Contains(err.Error(), "saving state: boom") {
		t.Errorf("err = %v", err)
	}
	var res OpResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != CodeIOOrParseFailure {
		t.Errorf("result = %+v", res)
	}
}
