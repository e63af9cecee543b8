// Package assets resolves asset references held in node properties and builds
// media browser locations. Importing from external asset sources is delegated
// to an injected Importer.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Reference is an asset property value: either a plain identifier or an object
// carrying the identity under __identity (metadata) or assetUuid (upload
// response).
type Reference struct {
	Identity  string
	AssetUUID string
	Plain     string
}

// Ref returns a plain identifier reference.
func Ref(id string) Reference {
	return Reference{Plain: id}
}

// ID returns the asset identity, preferring __identity over assetUuid over the
// plain identifier.
func (r Reference) ID() string {
	switch {
	case r.Identity != "":
		return r.Identity
	case r.AssetUUID != "":
		return r.AssetUUID
	}
	return r.Plain
}

// IsObject reports whether the reference was given as an object.
func (r Reference) IsObject() bool {
	return r.Identity != "" || r.AssetUUID != ""
}

// NeedsImport reports whether the reference names an asset in an external
// asset source ("source/identifier") that must be imported first.
func (r Reference) NeedsImport() bool {
	return !r.IsObject() && strings.Contains(r.Plain, "/")
}

type referenceObject struct {
	Identity  string `json:"__identity,omitempty"`
	AssetUUID string `json:"assetUuid,omitempty"`
}

// UnmarshalJSON accepts a string or an object.
func (r *Reference) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Reference{Plain: s}
		return nil
	}
	var obj referenceObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("asset reference: %w", err)
	}
	*r = Reference{Identity: obj.Identity, AssetUUID: obj.AssetUUID}
	return nil
}

// MarshalJSON writes plain references as strings and the others as objects.
func (r Reference) MarshalJSON() ([]byte, error) {
	if !r.IsObject() {
		return json.Marshal(r.Plain)
	}
	return json.Marshal(referenceObject{Identity: r.Identity, AssetUUID: r.AssetUUID})
}

// Importer imports an asset from an external asset source.
type Importer interface {
	ImportAsset(ctx context.Context, assetSourceIdentifier string) (Reference, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(ctx context.Context, assetSourceIdentifier string) (Reference, error)

// ImportAsset calls f.
func (f ImporterFunc) ImportAsset(ctx context.Context, assetSourceIdentifier string) (Reference, error) {
	return f(ctx, assetSourceIdentifier)
}

// ResolveOne returns the identity of ref, importing it first when it names an
// external asset.
func ResolveOne(ctx context.Context, imp Importer, ref Reference) (string, error) {
	if !ref.NeedsImport() {
		return ref.ID(), nil
	}
	if imp == nil {
		return "", fmt.Errorf("importing %q: no importer configured", ref.Plain)
	}
	imported, err := imp.ImportAsset(ctx, ref.Plain)
	if err != nil {
		return "", fmt.Errorf("importing %q: %w", ref.Plain, err)
	}
	return imported.ID(), nil
}

// Resolve resolves refs concurrently. The result has the order of refs; the
// first failure cancels the remaining imports.
func Resolve(ctx context.Context, imp Importer, refs []Reference) ([]string, error) {
	ids := make([]string, len(refs))
	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			id, err := ResolveOne(ctx, imp, ref)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ParseProperty reads a property value holding one reference or a list of
// references. many reports whether the value was a list.
func ParseProperty(value any) (refs []Reference, many bool, err error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, false, fmt.Errorf("asset property: %w", err)
	}
	if list, ok := value.([]any); ok {
		refs = make([]Reference, 0, len(list))
		if err := json.Unmarshal(data, &refs); err != nil {
			return nil, true, err
		}
		return refs, true, nil
	}
	var ref Reference
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, false, err
	}
	return []Reference{ref}, false, nil
}

// PropertyValue is the inverse of ParseProperty for resolved identities.
func PropertyValue(ids []string, many bool) any {
	if many {
		out := make([]any, len(ids))
		for i, id := range ids {
			out[i] = id
		}
		return out
	}
	if len(ids) == 0 {
		return nil
	}
	return ids[0]
}
