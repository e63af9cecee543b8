package nodes

import (
	"maps"
	"slices"
)

// HiddenProperty is the property name carrying a node's hidden flag.
const HiddenProperty = "hidden"

// Clone returns a copy of n that shares no mutable storage with it.
// Property values themselves are copied shallowly.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Children = CloneChildren(n.Children)
	if n.Properties != nil {
		c.Properties = maps.Clone(n.Properties)
	}
	c.Policy = n.Policy.Clone()
	return &c
}

// Clone returns a deep copy of p.
func (p *Policy) Clone() *Policy {
	if p == nil {
		return nil
	}
	c := *p
	c.DisallowedNodeTypes = slices.Clone(p.DisallowedNodeTypes)
	c.DisallowedProperties = slices.Clone(p.DisallowedProperties)
	return &c
}

// CloneChildren returns a copy of children; nil stays nil.
func CloneChildren(children []ChildRef) []ChildRef {
	if children == nil {
		return nil
	}
	return slices.Clone(children)
}

// CloneNodeMap deep-copies m so the result shares no nodes with it.
func CloneNodeMap(m NodeMap) NodeMap {
	out := make(NodeMap, len(m))
	for path, n := range m {
		out[path] = n.Clone()
	}
	return out
}

// IsHidden reports whether the node's hidden property is true.
func (n *Node) IsHidden() bool {
	if n == nil {
		return false
	}
	hidden, _ := n.Properties[HiddenProperty].(bool)
	return hidden
}

// ChildIndex returns the position of path in the node's child list, or -1.
func (n *Node) ChildIndex(path ContextPath) int {
	return IndexOfChild(n.Children, path)
}

// IndexOfChild returns the position of path in children, or -1.
func IndexOfChild(children []ChildRef, path ContextPath) int {
	return slices.IndexFunc(children, func(c ChildRef) bool {
		return c.ContextPath == path
	})
}

// CanRemove reports whether the policy allows removing the node.
// A node without policy allows everything.
func (n *Node) CanRemove() bool {
	return n.Policy == nil || n.Policy.CanRemove
}

// CanEdit reports whether the policy allows editing the node.
func (n *Node) CanEdit() bool {
	return n.Policy == nil || n.Policy.CanEdit
}

// AllowsChildNodeType reports whether a child of nodeType may be created below n.
func (n *Node) AllowsChildNodeType(nodeType NodeTypeName) bool {
	return n.Policy == nil || !slices.Contains(n.Policy.DisallowedNodeTypes, nodeType)
}

// AllowsProperty reports whether the property may be edited on n.
func (n *Node) AllowsProperty(name string) bool {
	return n.Policy == nil || !slices.Contains(n.Policy.DisallowedProperties, name)
}
