// Package database indexes a corpus of canonical street names and checks
// other names against it: exact match, wrong status spelling or placement,
// typos, and missing status words.
//
// A Database is built once with Add and queried afterwards. Add must not run
// concurrently with anything else; queries on a fully built Database may run
// concurrently.
package database

import (
	"sort"
	"strings"

	"github.com/bastiangx/streetmangler/internal/logger"
	"github.com/bastiangx/streetmangler/pkg/locale"
	"github.com/bastiangx/streetmangler/pkg/name"
	"github.com/bastiangx/streetmangler/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/hbollon/go-edlib"
	"github.com/tchap/go-patricia/v2/patricia"
)

// multimap keeps distinct values per key in insertion order.
type multimap map[string][]string

func (m multimap) add(key, value string) {
	for _, v := range m[key] {
		if v == value {
			return
		}
	}
	m[key] = append(m[key], value)
}

func (m multimap) get(key string) []string {
	values := m[key]
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// Database is the name index.
type Database struct {
	locale *locale.Locale

	names     map[string]struct{}
	canonical multimap
	spelling  multimap
	stripped  multimap

	spellTrie   *trie.Trie
	completions *patricia.Trie

	entries int
	log     *log.Logger
}

// New creates an empty Database for loc.
func New(loc *locale.Locale) *Database {
	return &Database{
		locale:      loc,
		names:       make(map[string]struct{}),
		canonical:   make(multimap),
		spelling:    make(multimap),
		stripped:    make(multimap),
		spellTrie:   trie.New(),
		completions: patricia.NewTrie(),
		log:         logger.New("database"),
	}
}

// Locale returns the locale names are tokenized with.
func (db *Database) Locale() *locale.Locale {
	return db.locale
}

// Len returns the number of entries added.
func (db *Database) Len() int {
	return db.entries
}

// Add indexes a canonical name. Blank names are ignored.
func (db *Database) Add(text string) {
	db.AddName(name.New(text, db.locale))
}

// AddName indexes a tokenized name.
func (db *Database) AddName(n *name.Name) {
	db.add(n, n.StatusFlags())
}

// AddWithFlags indexes a name using flags instead of the locale flags of its
// status word to place the status word in the canonical form. Lookup keys
// still follow the locale so the entry stays reachable by queries.
func (db *Database) AddWithFlags(text string, flags locale.Flags) {
	db.add(name.New(text, db.locale), flags)
}

func (db *Database) add(n *name.Name, flags locale.Flags) {
	h := computeHashes(n)
	if h.plain == "" {
		return
	}
	db.entries++

	pos := canonicalPos(flags)
	variants := []string{n.Join(name.CanonicalizeStatus | name.NormalizeWhitespace | pos)}

	// status words that may stand on either side get the other order too
	var alt name.JoinFlags
	switch {
	case flags&locale.RandomOrderIfLeft != 0 && n.StatusAtLeft():
		alt = name.StatusToRight
	case flags&locale.RandomOrderIfRight != 0 && n.StatusAtRight():
		alt = name.StatusToLeft
	}
	if alt != 0 {
		if v := n.Join(name.CanonicalizeStatus | name.NormalizeWhitespace | alt); v != variants[0] {
			variants = append(variants, v)
			db.log.Debugf("%q has %d canonical variants: %q", n, len(variants), variants)
		}
	}

	stripped, folded := strippedHash(n)
	completionKey := normalizeHash(n.Join(hashFlags | name.RemoveAllStatuses))

	for _, v := range variants {
		db.names[v] = struct{}{}
		db.canonical.add(h.plain, v)

		db.spellTrie.Insert(h.ordered)
		db.spelling.add(h.ordered, v)
		if h.unordered != h.ordered {
			db.spellTrie.Insert(h.unordered)
			db.spelling.add(h.unordered, v)
		}

		// only names that had a status word can be found without it
		if stripped != "" && stripped != h.ordered {
			db.stripped.add(folded, v)
		}

		db.addCompletion(normalizeHash(v), v)
		if completionKey != "" {
			db.addCompletion(completionKey, v)
		}
	}
}

// CheckExactMatch reports whether text is one of the canonical names.
func (db *Database) CheckExactMatch(text string) bool {
	_, ok := db.names[text]
	return ok
}

// CheckExactMatchName reports whether n, as written, is a canonical name.
func (db *Database) CheckExactMatchName(n *name.Name) bool {
	return db.CheckExactMatch(n.Join(0))
}

// CheckCanonicalForm returns the canonical names text is a non-canonical
// spelling of, such as "ул. Ленина" or "Ленина, улица" for "улица Ленина".
func (db *Database) CheckCanonicalForm(text string) []string {
	return db.CheckCanonicalFormName(name.New(text, db.locale))
}

// CheckCanonicalFormName is CheckCanonicalForm for a tokenized name.
func (db *Database) CheckCanonicalFormName(n *name.Name) []string {
	return db.canonical.get(computeHashes(n).plain)
}

// CheckSpelling returns the canonical names closest to text within
// maxDistance refined edits. Only the nearest matches are returned: if
// something is found one edit away, names two edits away are not.
func (db *Database) CheckSpelling(text string, maxDistance int) []string {
	return db.CheckSpellingName(name.New(text, db.locale), maxDistance)
}

// CheckSpellingName is CheckSpelling for a tokenized name.
func (db *Database) CheckSpellingName(n *name.Name, maxDistance int) []string {
	if maxDistance < 0 {
		return nil
	}

	h := computeHashes(n)
	queries := []string{h.ordered}
	if h.unordered != h.ordered {
		queries = append(queries, h.unordered)
	}

	// a transposition costs two raw edits but one refined edit, hence +1
	hits := make(map[string]struct{})
	for radius := 0; radius <= maxDistance+1 && len(hits) == 0; radius++ {
		for _, q := range queries {
			db.spellTrie.CollectApprox(q, radius, hits)
		}
	}

	sorted := make([]string, 0, len(hits))
	for hit := range hits {
		sorted = append(sorted, hit)
	}
	sort.Strings(sorted)

	var out []string
	seen := make(map[string]struct{})
	for _, hit := range sorted {
		best := Reject
		for _, q := range queries {
			d := GetRealApproxDistance(q, hit, edlib.LevenshteinDistance(q, hit))
			if d != Reject && (best == Reject || d < best) {
				best = d
			}
		}
		if best == Reject || best > maxDistance {
			continue
		}

		for _, v := range db.spelling[hit] {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// CheckStrippedStatus returns the canonical names that equal text once their
// status word is removed, such as "улица Ленина" for "Ленина".
func (db *Database) CheckStrippedStatus(text string) []string {
	return db.CheckStrippedStatusName(name.New(text, db.locale))
}

// CheckStrippedStatusName is CheckStrippedStatus for a tokenized name.
func (db *Database) CheckStrippedStatusName(n *name.Name) []string {
	return db.stripped.get(foldYo(computeHashes(n).ordered))
}

// Stats describes the size of the indices.
type Stats struct {
	Entries       int `msgpack:"entries"`
	Names         int `msgpack:"names"`
	CanonicalKeys int `msgpack:"canonical_keys"`
	SpellingKeys  int `msgpack:"spelling_keys"`
	StrippedKeys  int `msgpack:"stripped_keys"`
	TrieNodes     int `msgpack:"trie_nodes"`
}

// Stats returns index sizes.
func (db *Database) Stats() Stats {
	return Stats{
		Entries:       db.entries,
		Names:         len(db.names),
		CanonicalKeys: len(db.canonical),
		SpellingKeys:  len(db.spelling),
		StrippedKeys:  len(db.stripped),
		TrieNodes:     db.spellTrie.Nodes(),
	}
}

// Names returns all canonical names, sorted.
func (db *Database) Names() []string {
	out := make([]string, 0, len(db.names))
	for n := range db.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
