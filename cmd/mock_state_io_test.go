package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/assets"
	"github.com/eykd/crnodes/internal/config"
	"github.com/eykd/crnodes/internal/nodes"
	"github.com/eykd/crnodes/internal/snapshot"
)

// ─── Test doubles ───────────────────────────────────────────────────────────

// memBackend is an in-memory snapshot.Backend.
type memBackend struct {
	state   *nodes.State
	loadErr error
	saveErr error
	saves   int
}

func (b *memBackend) Load(_ context.Context) (nodes.State, error) {
	if b.loadErr != nil {
		return nodes.State{}, b.loadErr
	}
	if b.state == nil {
		return nodes.State{}, snapshot.ErrNotFound
	}
	return *b.state, nil
}

func (b *memBackend) Save(_ context.Context, s nodes.State) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saves++
	b.state = &s
	return nil
}

// mockStateIO is a test double for StateIO, InitIO and ApplyIO.
type mockStateIO struct {
	cfg       config.Config
	cfgErr    error
	backend   *memBackend
	openErr   error
	openedCfg config.Config

	files   map[string][]byte
	written map[string][]byte

	importer assets.Importer
}

func newMockStateIO(state *nodes.State) *mockStateIO {
	return &mockStateIO{
		cfg:     config.Default(),
		backend: &memBackend{state: state},
		files:   map[string][]byte{},
		written: map[string][]byte{},
	}
}

func (m *mockStateIO) LoadConfig(_ string) (config.Config, error) {
	return m.cfg, m.cfgErr
}

func (m *mockStateIO) OpenBackend(_ context.Context, cfg config.Config) (snapshot.Backend, error) {
	m.openedCfg = cfg
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.backend, nil
}

func (m *mockStateIO) Importer(_ config.Config) assets.Importer {
	return m.importer
}

func (m *mockStateIO) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *mockStateIO) StatFile(path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func (m *mockStateIO) WriteFileAtomic(path string, data []byte) error {
	m.written[path] = data
	return nil
}

// ─── Fixtures ───────────────────────────────────────────────────────────────

// graphState returns root with children root/a and root/b.
func graphState() *nodes.State {
	s := nodes.DefaultState()
	s.ByContextPath = nodes.NodeMap{
		"root": {ContextPath: "root", Name: "root", IsFullyLoaded: true, Children: []nodes.ChildRef{
			{ContextPath: "root/a", NodeType: "Page"},
			{ContextPath: "root/b", NodeType: "Page"},
		}},
		"root/a": {ContextPath: "root/a", Name: "a", Depth: 1},
		"root/b": {ContextPath: "root/b", Name: "b", Depth: 1},
	}
	s.SiteNode = "root"
	return &s
}

// runCmd executes c with args and returns stdout, stderr and the error.
func runCmd(t *testing.T, c *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(errOut)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), errOut.String(), err
}

func childOrder(s *nodes.State, path nodes.ContextPath) string {
	var parts []string
	for _, c := range s.ByContextPath[path].Children {
		parts = append(parts, c.ContextPath)
	}
	return strings.Join(parts, ",")
}

var errBoom = errors.New("boom")
