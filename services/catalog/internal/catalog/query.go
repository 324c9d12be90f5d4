package catalog

import (
	"sort"
	"strings"
)

const featuredMinRating = 8.0

// Find returns the first title with the given id.
func Find(titles []Title, id string) (Title, bool) {
	for _, t := range titles {
		if t.ID == id {
			return t, true
		}
	}
	return Title{}, false
}

// Filter matches q case-insensitively against title and name, and group
// exactly. Empty criteria match everything.
func Filter(titles []Title, q, group string) []Title {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Title, 0, len(titles))
	for _, t := range titles {
		if group != "" && t.Group != group {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Name), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Groups returns the distinct non-empty group labels in sorted order.
func Groups(titles []Title) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range titles {
		if t.Group == "" {
			continue
		}
		if _, ok := seen[t.Group]; ok {
			continue
		}
		seen[t.Group] = struct{}{}
		out = append(out, t.Group)
	}
	sort.Strings(out)
	return out
}

// Featured picks the first title rated 8 or higher, falling back to the
// first title in the catalog.
func Featured(titles []Title) (Title, bool) {
	if len(titles) == 0 {
		return Title{}, false
	}
	for _, t := range titles {
		if t.Score() >= featuredMinRating {
			return t, true
		}
	}
	return titles[0], true
}

// Trending returns up to limit titles ordered by rating, highest first.
// Ties keep catalog order.
func Trending(titles []Title, limit int) []Title {
	out := make([]Title, len(titles))
	copy(out, titles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Related returns up to limit other titles from the same group.
func Related(titles []Title, of Title, limit int) []Title {
	if limit <= 0 {
		return []Title{}
	}
	out := make([]Title, 0, limit)
	for _, t := range titles {
		if len(out) >= limit {
			break
		}
		if t.Group == of.Group && t.ID != of.ID {
			out = append(out, t)
		}
	}
	return out
}

// Select returns the titles whose ids are in ids, in catalog order. Ids
// missing from the catalog are skipped.
func Select(titles []Title, ids []string) []Title {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]Title, 0, len(ids))
	for _, t := range titles {
		if _, ok := want[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}
