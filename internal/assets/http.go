package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPConnectTimeout = 5 * time.Second
	defaultHTTPTLSTimeout     = 5 * time.Second
	defaultHTTPTimeout        = 30 * time.Second
)

func defaultClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: defaultHTTPConnectTimeout,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultHTTPTLSTimeout,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   defaultHTTPTimeout,
	}
}

// HTTPImporter imports assets by POSTing {"assetSourceIdentifier": ...} to an
// endpoint answering with the imported asset's reference object.
type HTTPImporter struct {
	URL    string
	Client *http.Client
}

// NewHTTPImporter returns an importer for the endpoint at url.
func NewHTTPImporter(url string) *HTTPImporter {
	return &HTTPImporter{URL: url, Client: defaultClient()}
}

type importRequest struct {
	AssetSourceIdentifier string `json:"assetSourceIdentifier"`
}

// ImportAsset implements Importer.
func (h *HTTPImporter) ImportAsset(ctx context.Context, assetSourceIdentifier string) (Reference, error) {
	body, err := json.Marshal(importRequest{AssetSourceIdentifier: assetSourceIdentifier})
	if err != nil {
		return Reference{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return Reference{}, err
	}
	req.Header.Add("Content-Type", "application/json")

	client := h.Client
	if client == nil {
		client = defaultClient()
	}
	r, err := client.Do(req)
	if err != nil {
		return Reference{}, err
	}
	defer r.Body.Close()

	responseBody, err := io.ReadAll(r.Body)
	if err != nil {
		return Reference{}, err
	}
	if r.StatusCode != http.StatusOK {
		// the response body is the error message
		return Reference{}, fmt.Errorf("asset import returned %d: %s", r.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var ref Reference
	if err := json.Unmarshal(responseBody, &ref); err != nil {
		return Reference{}, fmt.Errorf("decoding import response: %w", err)
	}
	if !ref.IsObject() {
		return Reference{}, errors.New("import response carries no asset identity")
	}
	return ref, nil
}
