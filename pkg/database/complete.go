package database

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"
)

func (db *Database) addCompletion(key, canonical string) {
	prefix := patricia.Prefix(key)
	if item := db.completions.Get(prefix); item != nil {
		names := item.([]string)
		for _, n := range names {
			if n == canonical {
				return
			}
		}
		db.completions.Set(prefix, append(names, canonical))
		return
	}
	db.completions.Insert(prefix, []string{canonical})
}

// Complete returns canonical names starting with prefix, matched case
// insensitively against both the full name and the name without its status
// word. Shorter names come first. A limit of zero or less means no limit.
func (db *Database) Complete(prefix string, limit int) []string {
	if isBlank(prefix) {
		return nil
	}
	lowerPrefix := normalizeHash(strings.TrimLeft(prefix, " \t"))

	seen := make(map[string]struct{})
	err := db.completions.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		names, ok := item.([]string)
		if !ok {
			db.log.Errorf("Unknown item type: %T for key %s", item, p)
			return nil
		}
		for _, n := range names {
			seen[n] = struct{}{}
		}
		return nil
	})
	if err != nil {
		db.log.Errorf("Error visiting completion subtree: %v", err)
		return nil
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(out[i]), utf8.RuneCountInString(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
