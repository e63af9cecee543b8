package ops

import (
	"maps"
	"sort"
	"strings"

	"github.com/eykd/crnodes/internal/nodes"
)

// updateURIs rewrites the uri of every node affected by a changed URI path
// segment. URIs are stored flat per node, so the whole map is scanned rather
// than walking children. Returns byPath itself when nothing changes.
func updateURIs(byPath nodes.NodeMap, oldFragment, newFragment string) nodes.NodeMap {
	if oldFragment == "" || oldFragment == newFragment {
		return byPath
	}
	var out nodes.NodeMap
	for path, n := range byPath {
		if n == nil {
			continue
		}
		uri, changed := rewriteURI(n.URI, oldFragment, newFragment)
		if !changed {
			continue
		}
		if out == nil {
			out = maps.Clone(byPath)
		}
		c := n.Clone()
		c.URI = uri
		out[path] = c
	}
	if out == nil {
		return byPath
	}
	return out
}

// rewriteURI replaces the first occurrence of oldFragment+"@" (the renamed node
// itself) and the first occurrence of oldFragment+"/" (a descendant). Requiring
// the "@" or "/" terminator keeps "/ab" from matching "/a". Both occurrences
// are located in the original uri.
func rewriteURI(uri, oldFragment, newFragment string) (string, bool) {
	if uri == "" {
		return uri, false
	}

	type hit struct {
		at  int
		sep string
	}
	var hits []hit
	for _, sep := range []string{"@", "/"} {
		if i := strings.Index(uri, oldFragment+sep); i >= 0 {
			hits = append(hits, hit{at: i, sep: sep})
		}
	}
	if len(hits) == 0 {
		return uri, false
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].at < hits[j].at })

	var b strings.Builder
	last := 0
	for _, h := range hits {
		// Overlapping matches only happen for fragments that contain their own
		// terminator; the earlier one wins.
		if h.at < last {
			continue
		}
		b.WriteString(uri[last:h.at])
		b.WriteString(newFragment + h.sep)
		last = h.at + len(oldFragment) + len(h.sep)
	}
	b.WriteString(uri[last:])
	out := b.String()
	return out, out != uri
}
