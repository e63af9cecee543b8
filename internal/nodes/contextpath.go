package nodes

import "strings"

// SplitContextPath splits a context path into its node path and the context
// suffix after the first "@". The context is empty when no "@" is present.
func SplitContextPath(contextPath ContextPath) (path, context string) {
	path, context, _ = strings.Cut(contextPath, "@")
	return path, context
}

// ParentContextPath derives the parent's context path by stripping the last
// "/" segment of the node path and re-attaching the context suffix. It returns
// "" for root-level paths, which have no parent.
//
//	ParentContextPath("/sites/neos/main@user-admin") == "/sites/neos@user-admin"
//	ParentContextPath("root/a") == "root"
//	ParentContextPath("root") == ""
func ParentContextPath(contextPath ContextPath) ContextPath {
	path, context := SplitContextPath(contextPath)
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return ""
	}
	parent := path[:i]
	if strings.Contains(contextPath, "@") {
		return parent + "@" + context
	}
	return parent
}

// AncestorContextPaths returns the context paths of all ancestors of
// contextPath, immediate parent first.
func AncestorContextPaths(contextPath ContextPath) []ContextPath {
	var out []ContextPath
	for p := ParentContextPath(contextPath); p != ""; p = ParentContextPath(p) {
		out = append(out, p)
	}
	return out
}

// IsAncestor reports whether ancestor is a proper ancestor of contextPath by
// path structure.
func IsAncestor(ancestor, contextPath ContextPath) bool {
	for p := ParentContextPath(contextPath); p != ""; p = ParentContextPath(p) {
		if p == ancestor {
			return true
		}
	}
	return false
}
