package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/eykd/crnodes/internal/assets"
	"github.com/eykd/crnodes/internal/config"
	"github.com/eykd/crnodes/internal/nodes"
	"github.com/eykd/crnodes/internal/snapshot"
	"github.com/eykd/crnodes/internal/store"
)

// StateIO resolves configuration and opens the snapshot backend it selects.
type StateIO interface {
	LoadConfig(path string) (config.Config, error)
	OpenBackend(ctx context.Context, cfg config.Config) (snapshot.Backend, error)
}

// errNotInitialized is reported when no snapshot exists yet.
var errNotInitialized = errors.New("state not initialized; run 'crn init' first")

// session is one command invocation's view of the node graph: the resolved
// configuration, the backend holding the snapshot and the store hosting it.
type session struct {
	cfg     config.Config
	backend snapshot.Backend
	store   *store.Store
	loaded  nodes.State
}

// resolveConfig loads the configuration named by --config and applies the
// persistent --state, --redis-url and --redis-key flags on top.
func resolveConfig(cmd *cobra.Command, sio StateIO) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.FileName
	}
	cfg, err := sio.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("state") {
		cfg.State, _ = cmd.Flags().GetString("state")
	}
	if cmd.Flags().Changed("redis-url") {
		cfg.RedisURL, _ = cmd.Flags().GetString("redis-url")
	}
	if cmd.Flags().Changed("redis-key") {
		cfg.RedisKey, _ = cmd.Flags().GetString("redis-key")
	}
	return cfg, nil
}

// openSession resolves the configuration and loads the saved state into a
// fresh store. A missing snapshot is an error.
func openSession(cmd *cobra.Command, sio StateIO) (*session, error) {
	s, err := openEmptySession(cmd, sio)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	state, err := s.backend.Load(ctx)
	if err != nil {
		s.close()
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil, errNotInitialized
		}
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if err := s.store.Restore(ctx, state); err != nil {
		s.close()
		return nil, err
	}
	s.loaded = s.store.State()
	return s, nil
}

// openEmptySession resolves the configuration and opens the backend without
// loading anything.
func openEmptySession(cmd *cobra.Command, sio StateIO) (*session, error) {
	cfg, err := resolveConfig(cmd, sio)
	if err != nil {
		return nil, err
	}
	backend, err := sio.OpenBackend(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("opening state backend: %w", err)
	}
	return &session{
		cfg:     cfg,
		backend: backend,
		store:   store.New(store.WithJournalSize(cfg.JournalSize), store.WithTag(cmd.Name())),
	}, nil
}

// changed reports whether the hosted state differs from the loaded one.
func (s *session) changed() bool {
	return !reflect.DeepEqual(s.loaded, s.store.State())
}

func (s *session) save(ctx context.Context) error {
	if err := s.backend.Save(ctx, s.store.State()); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func (s *session) state() nodes.State {
	return s.store.State()
}

func (s *session) close() {
	if c, ok := s.backend.(io.Closer); ok {
		_ = c.Close()
	}
}

// fileStateIO implements StateIO with .crn.yml on disk and a file or Redis
// backend.
type fileStateIO struct{}

func newDefaultStateIO() *fileStateIO {
	return &fileStateIO{}
}

// LoadConfig reads the configuration file and environment.
func (f *fileStateIO) LoadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

// OpenBackend opens Redis when a URL is configured and the state file otherwise.
func (f *fileStateIO) OpenBackend(ctx context.Context, cfg config.Config) (snapshot.Backend, error) {
	if cfg.RedisURL != "" {
		glog.V(1).Infof("[cmd]backend = redis key = %s\n", cfg.RedisKey)
		return snapshot.NewRedisBackend(ctx, cfg.RedisURL, cfg.RedisKey)
	}
	glog.V(1).Infof("[cmd]backend = file path = %s\n", cfg.State)
	return snapshot.NewFileBackend(cfg.State), nil
}

// Importer returns an HTTP importer for the configured endpoint.
func (f *fileStateIO) Importer(cfg config.Config) assets.Importer {
	if cfg.AssetImportURI == "" {
		return nil
	}
	return assets.NewHTTPImporter(cfg.AssetImportURI)
}

// ReadFile reads the file at path.
func (f *fileStateIO) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// StatFile returns true if the file at path exists.
func (f *fileStateIO) StatFile(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic writes data to path atomically via a temp file.
func (f *fileStateIO) WriteFileAtomic(path string, data []byte) error {
	return snapshot.WriteFileAtomic(path, data)
}
