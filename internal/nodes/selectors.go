package nodes

// Selectors never modify the state. Returned nodes are shared with the
// snapshot and must be treated as read-only.

// NodeByContextPath returns the node stored at contextPath.
func NodeByContextPath(s State, contextPath ContextPath) (*Node, bool) {
	if contextPath == "" {
		return nil, false
	}
	n, ok := s.ByContextPath[contextPath]
	return n, ok && n != nil
}

// ChildContextPaths returns the context paths of the node's children in
// sibling order, whether or not they are loaded.
func ChildContextPaths(s State, contextPath ContextPath) []ContextPath {
	n, ok := NodeByContextPath(s, contextPath)
	if !ok {
		return nil
	}
	out := make([]ContextPath, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c.ContextPath)
	}
	return out
}

// ChildrenOf returns the loaded children of the node in sibling order.
// Children listed but not present in the graph are skipped.
func ChildrenOf(s State, contextPath ContextPath) []*Node {
	n, ok := NodeByContextPath(s, contextPath)
	if !ok {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if child, ok := NodeByContextPath(s, c.ContextPath); ok {
			out = append(out, child)
		}
	}
	return out
}

// AncestorsOf returns the loaded ancestors of contextPath, immediate parent
// first. Ancestry is derived from the path structure.
func AncestorsOf(s State, contextPath ContextPath) []*Node {
	var out []*Node
	for _, p := range AncestorContextPaths(contextPath) {
		if n, ok := NodeByContextPath(s, p); ok {
			out = append(out, n)
		}
	}
	return out
}

// FocusedNode returns the focused node, if any.
func FocusedNode(s State) (*Node, bool) {
	return NodeByContextPath(s, s.Focused.ContextPath)
}

// ClipboardNode returns the node on the clipboard, if any.
func ClipboardNode(s State) (*Node, bool) {
	return NodeByContextPath(s, s.Clipboard)
}

// ToBeRemovedNode returns the node awaiting removal confirmation, if any.
func ToBeRemovedNode(s State) (*Node, bool) {
	return NodeByContextPath(s, s.ToBeRemoved)
}

// SiteNode returns the site root node, if loaded.
func SiteNode(s State) (*Node, bool) {
	return NodeByContextPath(s, s.SiteNode)
}

// DocumentNode returns the current document node, if loaded.
func DocumentNode(s State) (*Node, bool) {
	return NodeByContextPath(s, s.DocumentNode)
}

// IsHidden reports whether the node at contextPath exists and is hidden.
func IsHidden(s State, contextPath ContextPath) bool {
	n, ok := NodeByContextPath(s, contextPath)
	return ok && n.IsHidden()
}
