// Package config loads crn settings from an optional .crn.yml file and the
// environment. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/eykd/crnodes/internal/assets"
)

// FileName is the project configuration file looked up in the working directory.
const FileName = ".crn.yml"

// Config holds the resolved settings.
type Config struct {
	// State is the snapshot file used when no Redis URL is set.
	State           string          `yaml:"state"`
	RedisURL        string          `yaml:"redisUrl,omitempty"`
	RedisKey        string          `yaml:"redisKey,omitempty"`
	JournalSize     int             `yaml:"journalSize,omitempty"`
	MediaBrowserURI string          `yaml:"mediaBrowserUri,omitempty"`
	// AssetImportURI is the endpoint importing assets from external asset
	// sources. Empty disables importing.
	AssetImportURI  string          `yaml:"assetImportUri,omitempty"`
	Features        assets.Features `yaml:"features,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		State:           "crn-state.json",
		RedisKey:        "default",
		JournalSize:     100,
		MediaBrowserURI: "/neos/management/media",
	}
}

// Load reads path over the defaults and then applies the environment. A
// missing file is not an error.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, lookup func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config: %w", err)
		default:
			if cfg, err = Parse(data); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	env := envReader{lookup: lookup}
	cfg.State = env.getenv("CRN_STATE", cfg.State)
	cfg.RedisURL = env.getenv("CRN_REDIS_URL", cfg.RedisURL)
	cfg.RedisKey = env.getenv("CRN_REDIS_KEY", cfg.RedisKey)
	cfg.JournalSize = env.getenvInt("CRN_JOURNAL_SIZE", cfg.JournalSize)
	cfg.MediaBrowserURI = env.getenv("CRN_MEDIA_BROWSER_URI", cfg.MediaBrowserURI)
	cfg.AssetImportURI = env.getenv("CRN_ASSET_IMPORT_URI", cfg.AssetImportURI)
	return cfg, nil
}

// Parse decodes the contents of a .crn.yml file over the defaults. The
// environment is not consulted.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal renders cfg as the contents of a .crn.yml file.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

type envReader struct {
	lookup func(string) string
}

func (e envReader) getenv(key, fallback string) string {
	value := e.lookup(key)
	if value == "" {
		return fallback
	}
	return value
}

func (e envReader) getenvInt(key string, fallback int) int {
	value := e.lookup(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
