// Package store hosts the node graph: it linearizes commands through the
// transition function, keeps the current snapshot, records a bounded journal
// and notifies subscribers of every change.
package store

import (
	"context"
	"errors"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/eykd/crnodes/internal/nodes"
	"github.com/eykd/crnodes/internal/nodes/ops"
)

// DefaultJournalSize is the number of journal entries kept when no size is configured.
const DefaultJournalSize = 100

// ErrNotInitialized is returned by Dispatch before the store received INIT.
var ErrNotInitialized = errors.New("store not initialized: INIT must precede other commands")

// Entry is one journal record.
type Entry struct {
	ID      string          `json:"id"`
	Type    ops.CommandType `json:"type"`
	At      time.Time       `json:"at"`
	Changed bool            `json:"changed"`
	Err     string          `json:"error,omitempty"`
}

// Listener observes a dispatched command together with the snapshots before
// and after it. Listeners run in dispatch order after the state lock is
// released, so they may read the store and unsubscribe, but must not dispatch
// synchronously.
type Listener func(e Entry, prev, next nodes.State)

// Option configures a Store.
type Option func(*Store)

// WithJournalSize bounds the journal. n <= 0 keeps the default.
func WithJournalSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.journalSize = n
		}
	}
}

// WithTag sets the tag prefixed to the store's log lines.
func WithTag(tag string) Option {
	return func(s *Store) {
		s.tag = tag
	}
}

// WithClock replaces the journal clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is safe for concurrent use.
type Store struct {
	// dispatchMu serializes transitions together with their notifications.
	dispatchMu sync.Mutex

	mu          sync.RWMutex
	state       nodes.State
	initialized bool

	journal     []Entry
	journalSize int

	listeners  map[int]Listener
	listenerID int

	tag string
	now func() time.Time
}

// New returns an uninitialized store holding the default state.
func New(opts ...Option) *Store {
	s := &Store{
		state:       nodes.DefaultState(),
		journalSize: DefaultJournalSize,
		listeners:   map[int]Listener{},
		tag:         "crn",
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init applies the bulk load. It may be called again to reload the graph.
func (s *Store) Init(ctx context.Context, cmd ops.Init) (nodes.State, error) {
	return s.dispatch(ctx, cmd)
}

// Restore replaces the state with a previously saved snapshot and marks the
// store initialized. It is journaled like INIT but notifies nobody.
func (s *Store) Restore(ctx context.Context, state nodes.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.ByContextPath == nil {
		state.ByContextPath = nodes.NodeMap{}
	}
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.initialized = true
	s.record(Entry{ID: newEntryID(), Type: ops.TypeInit, At: s.now(), Changed: true})
	glog.V(2).Infof("[%s]restore nodes = %d\n", s.tag, len(state.ByContextPath))
	return nil
}

// Dispatch applies cmd and returns the resulting state. A rejected command
// leaves the state unchanged and is still journaled.
func (s *Store) Dispatch(ctx context.Context, cmd ops.Command) (nodes.State, error) {
	return s.dispatch(ctx, cmd)
}

func (s *Store) dispatch(ctx context.Context, cmd ops.Command) (nodes.State, error) {
	if err := ctx.Err(); err != nil {
		return s.State(), err
	}
	if cmd == nil {
		return s.State(), ops.ErrUnknownCommand
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	entry, prev, next, listeners, err := s.transition(cmd)
	if err != nil {
		return prev, err
	}
	for _, l := range listeners {
		l(entry, prev, next)
	}
	return next, nil
}

// transition applies cmd under the state lock and returns the listeners to
// notify, in subscription order.
func (s *Store) transition(cmd ops.Command) (Entry, nodes.State, nodes.State, []Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, isInit := cmd.(ops.Init)
	if !s.initialized && !isInit {
		return Entry{}, s.state, s.state, nil, ErrNotInitialized
	}

	prev := s.state
	next, err := ops.Apply(prev, cmd)
	entry := Entry{
		ID:   newEntryID(),
		Type: cmd.Type(),
		At:   s.now(),
	}
	if err != nil {
		entry.Err = err.Error()
		s.record(entry)
		if cmd.Type() == ops.TypeMove {
			glog.Warningf("[%s]move rejected = %s\n", s.tag, err)
		} else {
			glog.V(2).Infof("[%s]%s rejected = %s\n", s.tag, cmd.Type(), err)
		}
		return entry, prev, prev, nil, err
	}

	entry.Changed = !reflect.DeepEqual(prev, next)
	s.state = next
	if isInit {
		s.initialized = true
	}
	s.record(entry)
	glog.V(2).Infof("[%s]%s changed = %t nodes = %d\n", s.tag, cmd.Type(), entry.Changed, len(next.ByContextPath))

	ids := slices.Sorted(maps.Keys(s.listeners))
	listeners := make([]Listener, len(ids))
	for i, id := range ids {
		listeners[i] = s.listeners[id]
	}
	return entry, prev, next, listeners, nil
}

// State returns the current snapshot. The snapshot must be treated as read-only.
func (s *Store) State() nodes.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Initialized reports whether INIT (or Restore) has happened.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.listenerID
	s.listenerID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Journal returns a copy of the journal, oldest entry first.
func (s *Store) Journal() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.journal))
	copy(out, s.journal)
	return out
}

// record appends e, dropping the oldest entries beyond the journal size.
// Callers hold s.mu.
func (s *Store) record(e Entry) {
	s.journal = append(s.journal, e)
	if over := len(s.journal) - s.journalSize; over > 0 {
		s.journal = append(s.journal[:0:0], s.journal[over:]...)
	}
}

func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
