package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter returns the notes matching a free-text query, in input order.
//
// An empty query returns notes unchanged. Otherwise matching is
// case-insensitive substring search over title, body and each label; a query
// starting with '#' additionally matches labels containing the rest of the
// query.
func Filter(notes []Note, query string) []Note {
	if query == "" {
		return notes
	}
	q := strings.ToLower(query)
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if matches(n, q) {
			out = append(out, n)
		}
	}
	return out
}

// matches reports whether n matches an already lower-cased query.
func matches(n Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Body), q) {
		return true
	}
	tag, hashed := strings.CutPrefix(q, "#")
	for _, label := range n.Labels {
		l := strings.ToLower(label)
		if strings.Contains(l, q) {
			return true
		}
		if hashed && strings.Contains(l, tag) {
			return true
		}
	}
	return false
}

// Partition splits notes into pinned and unpinned, keeping relative order
// inside each group.
func Partition(notes []Note) (pinned, unpinned []Note) {
	pinned = make([]Note, 0, len(notes))
	unpinned = make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.Pinned {
			pinned = append(pinned, n)
		} else {
			unpinned = append(unpinned, n)
		}
	}
	return pinned, unpinned
}

// FilterLabels keeps notes having at least one label matching a glob
// pattern ("work/**", "proj-*"). An empty pattern keeps everything.
func FilterLabels(notes []Note, pattern string) ([]Note, error) {
	if pattern == "" {
		return notes, nil
	}
	pattern = NormalizeLabel(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid label pattern %q", pattern)
	}
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		for _, label := range n.Labels {
			if ok, _ := doublestar.Match(pattern, label); ok {
				out = append(out, n)
				break
			}
		}
	}
	return out, nil
}
