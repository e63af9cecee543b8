package nodes

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Audit checks the graph invariants that the transition function tolerates
// transiently and returns diagnostics sorted by severity (errors first) then
// path. It is a pure function.
func Audit(s State) []Diagnostic {
	var diags []Diagnostic

	parents := make(map[ContextPath][]ContextPath)
	for _, path := range sortedPaths(s.ByContextPath) {
		n := s.ByContextPath[path]
		if n == nil {
			continue
		}

		if n.ContextPath != "" && n.ContextPath != path {
			diags = append(diags, warnDiag(CodeContextPathMismatch, path,
				fmt.Sprintf("node stored at %s carries contextPath %s", path, n.ContextPath)))
		}

		// Blank identifiers belong to partially loaded nodes.
		if n.Identifier != "" {
			if _, err := uuid.Parse(n.Identifier); err != nil {
				diags = append(diags, warnDiag(CodeInvalidIdentifier, path,
					fmt.Sprintf("identifier is not a valid UUID: %s", n.Identifier)))
			}
		}

		for _, c := range n.Children {
			parents[c.ContextPath] = append(parents[c.ContextPath], path)
			if !n.IsFullyLoaded {
				continue
			}
			if _, ok := s.ByContextPath[c.ContextPath]; !ok {
				diags = append(diags, errDiag(CodeDanglingChild, path,
					fmt.Sprintf("child %s is not in the graph", c.ContextPath)))
			}
		}
	}

	for child, ps := range parents {
		if len(ps) > 1 {
			diags = append(diags, warnDiag(CodeMultipleParents, child,
				fmt.Sprintf("node is listed as child of %d parents: %v", len(ps), ps)))
		}
	}

	for _, ref := range []struct{ name, path string }{
		{"siteNode", s.SiteNode},
		{"documentNode", s.DocumentNode},
	} {
		if ref.path == "" {
			continue
		}
		if _, ok := s.ByContextPath[ref.path]; !ok {
			diags = append(diags, warnDiag(CodeMissingRoot, ref.path,
				fmt.Sprintf("%s is not in the graph", ref.name)))
		}
	}

	for _, ref := range []struct{ name, path string }{
		{"focused node", s.Focused.ContextPath},
		{"clipboard node", s.Clipboard},
		{"node to be removed", s.ToBeRemoved},
	} {
		if ref.path == "" {
			continue
		}
		if _, ok := s.ByContextPath[ref.path]; !ok {
			diags = append(diags, warnDiag(CodeMissingReference, ref.path,
				fmt.Sprintf("%s is not in the graph", ref.name)))
		}
	}

	if n, ok := ToBeRemovedNode(s); ok && !n.CanRemove() {
		diags = append(diags, warnDiag(CodeRemovalForbidden, s.ToBeRemoved,
			"node is marked for removal but its policy forbids removing it"))
	}

	if (s.Clipboard == "") != (s.ClipboardMode == "") {
		diags = append(diags, errDiag(CodeClipboardInconsistent, s.Clipboard,
			fmt.Sprintf("clipboard %q and clipboard mode %q must be set together", s.Clipboard, s.ClipboardMode)))
	}
	if (s.Focused.ContextPath == "") != (s.Focused.FusionPath == "") {
		diags = append(diags, errDiag(CodeFocusInconsistent, s.Focused.ContextPath,
			fmt.Sprintf("focused contextPath %q and fusionPath %q must be set together",
				s.Focused.ContextPath, s.Focused.FusionPath)))
	}

	sort.SliceStable(diags, func(i, j int) bool {
		si := severityRank(diags[i].Severity)
		sj := severityRank(diags[j].Severity)
		if si != sj {
			return si < sj
		}
		if diags[i].Path != diags[j].Path {
			return diags[i].Path < diags[j].Path
		}
		return diags[i].Code < diags[j].Code
	})

	return diags
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// sortedPaths returns the keys of m in ascending order.
func sortedPaths(m NodeMap) []ContextPath {
	paths := make([]ContextPath, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// severityRank returns a numeric rank for sorting: errors (0) sort before warnings (1).
func severityRank(s string) int {
	if s == SeverityError {
		return 0
	}
	return 1
}

func errDiag(code, path, message string) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityError, Message: message, Path: path}
}

func warnDiag(code, path, message string) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityWarning, Message: message, Path: path}
}
