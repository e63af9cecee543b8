package assets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPImporter_ImportsAsset(t *testing.T) {
	var got importRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"__identity":"imported-1"}`))
	}))
	defer srv.Close()

	ref, err := NewHTTPImporter(srv.URL).ImportAsset(context.Background(), "unsplash/photo-1")
	if err != nil {
		t.Fatalf("ImportAsset: %v", err)
	}
	if got.AssetSourceIdentifier != "unsplash/photo-1" {
		t.Errorf("assetSourceIdentifier = %q", got.AssetSourceIdentifier)
	}
	if ref.ID() != "imported-1" {
		t.Errorf("ID() = %q, want imported-1", ref.ID())
	}
}

func TestHTTPImporter_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "asset source offline", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPImporter(srv.URL).ImportAsset(context.Background(), "unsplash/photo-1")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "asset source offline") {
		t.Errorf("error = %q", err)
	}
}

func TestHTTPImporter_RejectsResponseWithoutIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"not-an-object"`))
	}))
	defer srv.Close()

	if _, err := NewHTTPImporter(srv.URL).ImportAsset(context.Background(), "a/b"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestHTTPImporter_ThroughResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{"assetUuid": "uuid-" + strings.TrimPrefix(req.AssetSourceIdentifier, "src/")})
	}))
	defer srv.Close()

	ids, err := Resolve(context.Background(), NewHTTPImporter(srv.URL), []Reference{Ref("src/x"), Ref("local"), Ref("src/y")})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"uuid-x", "local", "uuid-y"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}
