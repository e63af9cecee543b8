// Package nodes provides the data model of the content node graph: nodes keyed
// by context path, the selection and workflow state around them, and the
// read-only selectors used by rendering collaborators.
package nodes

// ContextPath is a type alias for string identifying a node within a specific
// workspace and dimension context, e.g. "/sites/neos/main@user-admin;language=en_US".
// The empty string stands for "no node".
type ContextPath = string

// NodeTypeName is a type alias for string naming a content node type.
type NodeTypeName = string

// InsertPosition says where a moved node lands relative to its target.
type InsertPosition string

const (
	// PositionInto appends the node to the target's children.
	PositionInto InsertPosition = "into"
	// PositionBefore inserts the node right before the target among its siblings.
	PositionBefore InsertPosition = "before"
	// PositionAfter inserts the node right after the target among its siblings.
	PositionAfter InsertPosition = "after"
)

// Valid reports whether p is one of the known positions.
func (p InsertPosition) Valid() bool {
	switch p {
	case PositionInto, PositionBefore, PositionAfter:
		return true
	}
	return false
}

// ClipboardMode records whether a pending paste originated from copy or cut.
// The empty mode means the clipboard is empty.
type ClipboardMode string

const (
	// ClipboardCopy keeps the clipboard populated after a paste.
	ClipboardCopy ClipboardMode = "Copy"
	// ClipboardMove consumes the clipboard on the first paste.
	ClipboardMove ClipboardMode = "Move"
)

// ChildRef is one entry of a node's ordered child list.
type ChildRef struct {
	ContextPath ContextPath  `json:"contextPath" yaml:"contextPath"`
	NodeType    NodeTypeName `json:"nodeType" yaml:"nodeType"`
}

// Policy carries the permissions the backend computed for the current user.
type Policy struct {
	DisallowedNodeTypes  []NodeTypeName `json:"disallowedNodeTypes" yaml:"disallowedNodeTypes"`
	CanRemove            bool           `json:"canRemove" yaml:"canRemove"`
	CanEdit              bool           `json:"canEdit" yaml:"canEdit"`
	DisallowedProperties []string       `json:"disallowedProperties" yaml:"disallowedProperties"`
}

// Node is a content node as held by the graph.
// Values reachable from a State are shared between snapshots and must not be
// modified in place; transitions clone what they change.
type Node struct {
	ContextPath              ContextPath    `json:"contextPath" yaml:"contextPath"`
	Name                     string         `json:"name" yaml:"name"`
	Identifier               string         `json:"identifier" yaml:"identifier"` // stable UUID
	NodeType                 NodeTypeName   `json:"nodeType" yaml:"nodeType"`
	Label                    string         `json:"label" yaml:"label"`
	IsAutoCreated            bool           `json:"isAutoCreated" yaml:"isAutoCreated"`
	Depth                    int            `json:"depth" yaml:"depth"`
	Children                 []ChildRef     `json:"children" yaml:"children"` // sibling order is significant
	MatchesCurrentDimensions bool           `json:"matchesCurrentDimensions" yaml:"matchesCurrentDimensions"`
	Properties               map[string]any `json:"properties" yaml:"properties"`
	IsFullyLoaded            bool           `json:"isFullyLoaded" yaml:"isFullyLoaded"`
	URI                      string         `json:"uri" yaml:"uri"`
	Policy                   *Policy        `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// NodeMap maps context paths to nodes.
type NodeMap map[ContextPath]*Node

// NodePatch is a partial node as delivered by the backend for a merge.
// Nil fields are absent and leave the existing value alone, except that MERGE
// always overwrites Children and MatchesCurrentDimensions.
type NodePatch struct {
	ContextPath              *ContextPath   `json:"contextPath,omitempty" yaml:"contextPath,omitempty"`
	Name                     *string        `json:"name,omitempty" yaml:"name,omitempty"`
	Identifier               *string        `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	NodeType                 *NodeTypeName  `json:"nodeType,omitempty" yaml:"nodeType,omitempty"`
	Label                    *string        `json:"label,omitempty" yaml:"label,omitempty"`
	IsAutoCreated            *bool          `json:"isAutoCreated,omitempty" yaml:"isAutoCreated,omitempty"`
	Depth                    *int           `json:"depth,omitempty" yaml:"depth,omitempty"`
	Children                 []ChildRef     `json:"children,omitempty" yaml:"children,omitempty"`
	MatchesCurrentDimensions *bool          `json:"matchesCurrentDimensions,omitempty" yaml:"matchesCurrentDimensions,omitempty"`
	Properties               map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	IsFullyLoaded            *bool          `json:"isFullyLoaded,omitempty" yaml:"isFullyLoaded,omitempty"`
	URI                      *string        `json:"uri,omitempty" yaml:"uri,omitempty"`
	Policy                   *Policy        `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// PatchMap maps context paths to partial nodes.
type PatchMap map[ContextPath]NodePatch

// Focused is the focused node together with its fusion path. Both are set and
// cleared together.
type Focused struct {
	ContextPath ContextPath `json:"contextPath" yaml:"contextPath"`
	FusionPath  string      `json:"fusionPath" yaml:"fusionPath"`
}

// State is one immutable snapshot of the node graph and its workflow fields.
type State struct {
	ByContextPath NodeMap       `json:"byContextPath"`
	SiteNode      ContextPath   `json:"siteNode"`
	DocumentNode  ContextPath   `json:"documentNode"`
	Focused       Focused       `json:"focused"`
	ToBeRemoved   ContextPath   `json:"toBeRemoved"`
	Clipboard     ContextPath   `json:"clipboard"`
	ClipboardMode ClipboardMode `json:"clipboardMode"`
}

// DefaultState returns the empty state that exists before INIT.
func DefaultState() State {
	return State{ByContextPath: NodeMap{}}
}

// Diagnostic is a finding produced by Audit.
type Diagnostic struct {
	Code     string `json:"code"`
	Severity string `json:"severity"` // "error" | "warning"
	Message  string `json:"message"`
	Path     string `json:"path"`
}

// Severity values of a Diagnostic.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Audit errors.
const (
	// CodeDanglingChild: a fully loaded node lists a child that is not in the graph.
	CodeDanglingChild = "NDE001"
	// CodeClipboardInconsistent: clipboard and clipboardMode are not set together.
	CodeClipboardInconsistent = "NDE002"
	// CodeFocusInconsistent: focused contextPath and fusionPath are not set together.
	CodeFocusInconsistent = "NDE003"
)

// Audit warnings.
const (
	// CodeMissingRoot: siteNode or documentNode names a node that is not in the graph.
	CodeMissingRoot = "NDW001"
	// CodeMissingReference: the focused, clipboard or to-be-removed node is not in the graph.
	CodeMissingReference = "NDW002"
	// CodeInvalidIdentifier: a non-blank identifier is not a valid UUID.
	CodeInvalidIdentifier = "NDW003"
	// CodeContextPathMismatch: a node is stored under a key other than its own contextPath.
	CodeContextPathMismatch = "NDW004"
	// CodeMultipleParents: a node is listed as child of more than one parent.
	CodeMultipleParents = "NDW005"
	// CodeRemovalForbidden: the node marked for removal has a policy that forbids removing it.
	CodeRemovalForbidden = "NDW006"
)
