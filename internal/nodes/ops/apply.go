package ops

import (
	"maps"

	"github.com/eykd/crnodes/internal/nodes"
)

// Apply returns the state that results from applying cmd to s. It never
// modifies s or anything reachable from it: unchanged nodes are shared with
// the result, changed nodes are cloned.
//
// Only Move can fail. On error the input state is returned unchanged.
// Commands addressing absent nodes (Hide, Show, Remove) are no-ops, as are
// signal-only commands and unknown command values.
func Apply(s nodes.State, cmd Command) (nodes.State, error) {
	switch c := cmd.(type) {
	case Init:
		s.ByContextPath = cloneOrEmpty(c.ByContextPath)
		s.SiteNode = c.SiteNode
		s.Clipboard = c.Clipboard
		s.ClipboardMode = c.ClipboardMode
	case Add:
		if len(c.NodeMap) == 0 {
			return s, nil
		}
		byPath := maps.Clone(s.ByContextPath)
		if byPath == nil {
			byPath = nodes.NodeMap{}
		}
		for path, n := range c.NodeMap {
			byPath[path] = n.Clone()
		}
		s.ByContextPath = byPath
	case Merge:
		s.ByContextPath = mergeNodes(s.ByContextPath, c.NodeMap, mergeNode)
	case Focus:
		s.Focused = nodes.Focused{ContextPath: c.ContextPath, FusionPath: c.FusionPath}
	case Unfocus:
		s.Focused = nodes.Focused{}
	case CommenceRemoval:
		s.ToBeRemoved = c.ContextPath
	case AbortRemoval, ConfirmRemoval:
		s.ToBeRemoved = ""
	case Remove:
		// The parent's child list is left alone; see Audit (NDE001).
		if _, ok := s.ByContextPath[c.ContextPath]; !ok {
			return s, nil
		}
		byPath := maps.Clone(s.ByContextPath)
		delete(byPath, c.ContextPath)
		s.ByContextPath = byPath
	case SetState:
		s.SiteNode = c.SiteNodeContextPath
		s.DocumentNode = c.DocumentNodeContextPath
		s.Focused = nodes.Focused{}
		if c.Merge {
			s.ByContextPath = mergeNodes(s.ByContextPath, c.Nodes, deepMergeNode)
		} else {
			byPath := make(nodes.NodeMap, len(c.Nodes))
			for path, p := range c.Nodes {
				byPath[path] = nodeFromPatch(p)
			}
			s.ByContextPath = byPath
		}
	case Copy:
		s.Clipboard = c.ContextPath
		s.ClipboardMode = nodes.ClipboardCopy
	case Cut:
		s.Clipboard = c.ContextPath
		s.ClipboardMode = nodes.ClipboardMove
	case CommitPaste:
		if c.ClipboardMode == nodes.ClipboardMove {
			s.Clipboard = ""
			s.ClipboardMode = ""
		}
	case Hide:
		s.ByContextPath = setHidden(s.ByContextPath, c.ContextPath, true)
	case Show:
		s.ByContextPath = setHidden(s.ByContextPath, c.ContextPath, false)
	case Move:
		return applyMove(s, c)
	case UpdateURI:
		s.ByContextPath = updateURIs(s.ByContextPath, c.OldURIFragment, c.NewURIFragment)
	}
	return s, nil
}

// ApplyAll applies cmds in order and stops at the first error, returning the
// state reached before the failing command together with its index.
func ApplyAll(s nodes.State, cmds []Command) (nodes.State, int, error) {
	for i, cmd := range cmds {
		next, err := Apply(s, cmd)
		if err != nil {
			return s, i, err
		}
		s = next
	}
	return s, len(cmds), nil
}

// IsSignal reports whether cmd only notifies collaborators and never changes
// the state.
func IsSignal(cmd Command) bool {
	switch cmd.(type) {
	case CommenceCreation, ReloadState, Paste:
		return true
	}
	return false
}

// setHidden returns byPath with the hidden property of path set to hidden.
// An absent path leaves byPath untouched.
func setHidden(byPath nodes.NodeMap, path nodes.ContextPath, hidden bool) nodes.NodeMap {
	n, ok := byPath[path]
	if !ok || n == nil {
		return byPath
	}
	c := n.Clone()
	if c.Properties == nil {
		c.Properties = map[string]any{}
	}
	c.Properties[nodes.HiddenProperty] = hidden
	out := maps.Clone(byPath)
	out[path] = c
	return out
}

func cloneOrEmpty(m nodes.NodeMap) nodes.NodeMap {
	if m == nil {
		return nodes.NodeMap{}
	}
	return nodes.CloneNodeMap(m)
}
