// Package snapshot persists node graph states between runs of the crn tool.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eykd/crnodes/internal/nodes"
)

// Version is the envelope format version written by Save.
const Version = "1"

// ErrNotFound is returned by Load when no snapshot has been saved yet.
var ErrNotFound = errors.New("snapshot not found")

// Backend loads and saves whole states.
type Backend interface {
	Load(ctx context.Context) (nodes.State, error)
	Save(ctx context.Context, s nodes.State) error
}

// Envelope is the stored form of a state.
type Envelope struct {
	Version string      `json:"version"`
	SavedAt time.Time   `json:"savedAt"`
	State   nodes.State `json:"state"`
}

// Encode wraps s in an envelope stamped with savedAt.
func Encode(s nodes.State, savedAt time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(Envelope{Version: Version, SavedAt: savedAt, State: s}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses an envelope. A missing node mapping decodes as empty.
func Decode(data []byte) (nodes.State, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nodes.State{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if env.Version != Version {
		return nodes.State{}, fmt.Errorf("unsupported snapshot version %q", env.Version)
	}
	if env.State.ByContextPath == nil {
		env.State.ByContextPath = nodes.NodeMap{}
	}
	return env.State, nil
}
