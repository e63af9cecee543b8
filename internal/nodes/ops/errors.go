package ops

import "errors"

// Structural precondition violations reported by Move. They indicate a caller
// logic bug and are never retried.
var (
	ErrNoParent        = errors.New("node has no parent")
	ErrCycle           = errors.New("cannot move a node into itself or its descendants")
	ErrNodeNotFound    = errors.New("node not found")
	ErrNotAChild       = errors.New("node is not listed among its parent's children")
	ErrTargetNotFound  = errors.New("target node is not listed among the destination's children")
	ErrInvalidPosition = errors.New("invalid insert position")
)

// ErrUnknownCommand is returned when a script names a command type that does
// not exist.
var ErrUnknownCommand = errors.New("unknown command type")
