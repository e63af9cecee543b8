package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Asset editor features.
const (
	FeatureMediaBrowser = "mediaBrowser"
	FeatureUpload       = "upload"
)

// Features toggles asset editor features by name.
type Features map[string]bool

// DefaultFeatures enables the media browser and uploads.
func DefaultFeatures() Features {
	return Features{FeatureMediaBrowser: true, FeatureUpload: true}
}

// Enabled reports whether name is enabled in f laid over the defaults.
// Unknown features are disabled.
func (f Features) Enabled(name string) bool {
	if v, ok := f[name]; ok {
		return v
	}
	return DefaultFeatures()[name]
}

// MediaBrowserURL returns the location of the media browser selection screen
// below base. assetType "images" restricts the browser to images.
func MediaBrowserURL(base, assetType string, constraints map[string]any) (string, error) {
	final := make(map[string]any, len(constraints)+1)
	for k, v := range constraints {
		final[k] = v
	}
	if assetType == "images" {
		final["typeFilter"] = "Image"
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(final); err != nil {
		return "", fmt.Errorf("encoding browser constraints: %w", err)
	}
	encoded := encodeURIComponent(strings.TrimSuffix(buf.String(), "\n"))
	return strings.TrimSuffix(base, "/") + "/assets/index.html?browserConstraints=" + encoded, nil
}

// encodeURIComponent escapes s like the browser function of the same name.
func encodeURIComponent(s string) string {
	r := strings.NewReplacer(
		"+", "%20",
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	)
	return r.Replace(url.QueryEscape(s))
}
