// Package ops implements the transition function of the node graph: every
// command the editing interface may issue and the state change it causes.
package ops

import "github.com/eykd/crnodes/internal/nodes"

// CommandType names a command in scripts, journals and logs.
type CommandType string

// The complete command vocabulary.
const (
	TypeInit             CommandType = "INIT"
	TypeAdd              CommandType = "ADD"
	TypeMerge            CommandType = "MERGE"
	TypeFocus            CommandType = "FOCUS"
	TypeUnfocus          CommandType = "UNFOCUS"
	TypeCommenceCreation CommandType = "COMMENCE_CREATION"
	TypeCommenceRemoval  CommandType = "COMMENCE_REMOVAL"
	TypeRemovalAborted   CommandType = "REMOVAL_ABORTED"
	TypeRemovalConfirmed CommandType = "REMOVAL_CONFIRMED"
	TypeRemove           CommandType = "REMOVE"
	TypeSetState         CommandType = "SET_STATE"
	TypeReloadState      CommandType = "RELOAD_STATE"
	TypeCopy             CommandType = "COPY"
	TypeCut              CommandType = "CUT"
	TypeMove             CommandType = "MOVE"
	TypePaste            CommandType = "PASTE"
	TypeCommitPaste      CommandType = "COMMIT_PASTE"
	TypeHide             CommandType = "HIDE"
	TypeShow             CommandType = "SHOW"
	TypeUpdateURI        CommandType = "UPDATE_URI"
)

// Command is a request to change the node graph.
type Command interface {
	Type() CommandType
}

// Init is the bulk load consumed once at start-up.
type Init struct {
	ByContextPath nodes.NodeMap       `json:"byContextPath" yaml:"byContextPath"`
	SiteNode      nodes.ContextPath   `json:"siteNode" yaml:"siteNode"`
	Clipboard     nodes.ContextPath   `json:"clipboard" yaml:"clipboard"`
	ClipboardMode nodes.ClipboardMode `json:"clipboardMode" yaml:"clipboardMode"`
}

// Add inserts or wholesale replaces nodes.
type Add struct {
	NodeMap nodes.NodeMap `json:"nodeMap" yaml:"nodeMap"`
}

// Merge merges partial nodes onto existing ones.
type Merge struct {
	NodeMap nodes.PatchMap `json:"nodeMap" yaml:"nodeMap"`
}

// Focus marks a node as focused.
type Focus struct {
	ContextPath nodes.ContextPath `json:"contextPath" yaml:"contextPath"`
	FusionPath  string            `json:"fusionPath" yaml:"fusionPath"`
}

// Unfocus clears the focus.
type Unfocus struct{}

// CommenceCreation signals the start of the node creation workflow.
type CommenceCreation struct {
	ReferenceNodeContextPath nodes.ContextPath `json:"referenceNodeContextPath" yaml:"referenceNodeContextPath"`
	ReferenceNodeFusionPath  string            `json:"referenceNodeFusionPath" yaml:"referenceNodeFusionPath"`
}

// CommenceRemoval marks a node for removal pending confirmation.
type CommenceRemoval struct {
	ContextPath nodes.ContextPath `json:"contextPath" yaml:"contextPath"`
}

// AbortRemoval cancels the pending removal.
type AbortRemoval struct{}

// ConfirmRemoval confirms the pending removal. It does not delete the node.
type ConfirmRemoval struct{}

// Remove deletes a node from the graph.
type Remove struct {
	ContextPath nodes.ContextPath `json:"contextPath" yaml:"contextPath"`
}

// SetState replaces the graph on page load or after a dimension or workspace switch.
// Nodes are partial so that a merge can tell absent fields from zero values.
type SetState struct {
	SiteNodeContextPath     nodes.ContextPath `json:"siteNodeContextPath" yaml:"siteNodeContextPath"`
	DocumentNodeContextPath nodes.ContextPath `json:"documentNodeContextPath" yaml:"documentNodeContextPath"`
	Nodes                   nodes.PatchMap    `json:"nodes" yaml:"nodes"`
	Merge                   bool              `json:"merge" yaml:"merge"`
}

// ReloadState asks collaborators to reload the graph. The state is unchanged.
type ReloadState struct {
	SiteNodeContextPath     nodes.ContextPath `json:"siteNodeContextPath" yaml:"siteNodeContextPath"`
	DocumentNodeContextPath nodes.ContextPath `json:"documentNodeContextPath" yaml:"documentNodeContextPath"`
	Nodes                   nodes.NodeMap     `json:"nodes" yaml:"nodes"`
	Merge                   bool              `json:"merge" yaml:"merge"`
}

// Copy puts a node on the clipboard for copying.
type Copy struct {
	ContextPath nodes.ContextPath `json:"contextPath" yaml:"contextPath"`
}

// Cut puts a node on the clipboard for moving.
type Cut struct {
	ContextPath nodes.ContextPath `json:"contextPath" yaml:"contextPath"`
}

// Move relocates a node in the sibling order.
type Move struct {
	NodeToBeMoved nodes.ContextPath    `json:"nodeToBeMoved" yaml:"nodeToBeMoved"`
	TargetNode    nodes.ContextPath    `json:"targetNode" yaml:"targetNode"`
	Position      nodes.InsertPosition `json:"position" yaml:"position"`
}

// Paste asks collaborators to paste the clipboard at a node. The state is unchanged.
type Paste struct {
	ContextPath nodes.ContextPath `json:"contextPath" yaml:"contextPath"`
	FusionPath  string            `json:"fusionPath" yaml:"fusionPath"`
}

// CommitPaste marks the moment the paste request is committed.
type CommitPaste struct {
	ClipboardMode nodes.ClipboardMode `json:"clipboardMode" yaml:"clipboardMode"`
}

// Hide sets a node's hidden property.
type Hide struct {
	ContextPath nodes.ContextPath `json:"contextPath" yaml:"contextPath"`
}

// Show clears a node's hidden property.
type Show struct {
	ContextPath nodes.ContextPath `json:"contextPath" yaml:"contextPath"`
}

// UpdateURI rewrites the URIs of a node whose URI path segment changed and of
// all its descendants.
type UpdateURI struct {
	OldURIFragment string `json:"oldUriFragment" yaml:"oldUriFragment"`
	NewURIFragment string `json:"newUriFragment" yaml:"newUriFragment"`
}

func (Init) Type() CommandType             { return TypeInit }
func (Add) Type() CommandType              { return TypeAdd }
func (Merge) Type() CommandType            { return TypeMerge }
func (Focus) Type() CommandType            { return TypeFocus }
func (Unfocus) Type() CommandType          { return TypeUnfocus }
func (CommenceCreation) Type() CommandType { return TypeCommenceCreation }
func (CommenceRemoval) Type() CommandType  { return TypeCommenceRemoval }
func (AbortRemoval) Type() CommandType     { return TypeRemovalAborted }
func (ConfirmRemoval) Type() CommandType   { return TypeRemovalConfirmed }
func (Remove) Type() CommandType           { return TypeRemove }
func (SetState) Type() CommandType         { return TypeSetState }
func (ReloadState) Type() CommandType      { return TypeReloadState }
func (Copy) Type() CommandType             { return TypeCopy }
func (Cut) Type() CommandType              { return TypeCut }
func (Move) Type() CommandType             { return TypeMove }
func (Paste) Type() CommandType            { return TypePaste }
func (CommitPaste) Type() CommandType      { return TypeCommitPaste }
func (Hide) Type() CommandType             { return TypeHide }
func (Show) Type() CommandType             { return TypeShow }
func (UpdateURI) Type() CommandType        { return TypeUpdateURI }
