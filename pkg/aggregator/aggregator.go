package aggregator

import (
	"sync"

	"github.com/bastiangx/streetmangler/pkg/name"
)

// Flags tune what an Aggregator keeps.
type Flags int

const (
	// PerStreetStats classifies every occurrence of a name instead of only
	// the first one, so Total counts are meaningful.
	PerStreetStats Flags = 1 << iota
	// CountNames records how often each name was seen, for dump.counts files.
	CountNames
)

const numClasses = int(NonName) + 1

// Aggregator classifies a stream of names and remembers the outcome of each
// unique name. It is safe for concurrent use.
type Aggregator struct {
	db       Checker
	flags    Flags
	distance int

	mu     sync.Mutex
	total  int
	counts [numClasses]int

	all       map[string]struct{}
	exact     map[string]struct{}
	canonical map[string]string
	spelling  map[string][]string
	stripped  map[string]struct{}
	noMatch   map[string]struct{}
	nonName   map[string]struct{}

	seen map[Class]map[string]int
}

// New creates an Aggregator that checks spelling within distance.
func New(db Checker, flags Flags, distance int) *Aggregator {
	a := &Aggregator{
		db:        db,
		flags:     flags,
		distance:  distance,
		all:       make(map[string]struct{}),
		exact:     make(map[string]struct{}),
		canonical: make(map[string]string),
		spelling:  make(map[string][]string),
		stripped:  make(map[string]struct{}),
		noMatch:   make(map[string]struct{}),
		nonName:   make(map[string]struct{}),
	}
	if flags&CountNames != 0 {
		a.seen = make(map[Class]map[string]int)
	}
	return a
}

// ProcessName classifies raw and records the result. Without PerStreetStats
// or CountNames a name seen before is only counted in the total.
func (a *Aggregator) ProcessName(raw string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	a.countName(allNames, raw)

	_, dup := a.all[raw]
	a.all[raw] = struct{}{}
	if dup && a.flags&(PerStreetStats|CountNames) == 0 {
		return
	}

	if a.db.CheckExactMatch(raw) {
		a.counts[ExactMatch]++
		a.exact[raw] = struct{}{}
		return
	}

	n := name.New(raw, a.db.Locale())
	res := classifyName(a.db, n, a.distance)
	a.counts[res.Class]++

	switch res.Class {
	case CanonicalForm:
		if _, ok := a.canonical[raw]; !ok {
			a.canonical[raw] = res.Suggestions[0]
		}
		return
	case SpellingFixed:
		if _, ok := a.spelling[raw]; !ok {
			a.spelling[raw] = res.Suggestions
		}
	case StrippedStatus:
		a.stripped[raw] = struct{}{}
	case NoMatch:
		a.noMatch[raw] = struct{}{}
	case NonName:
		a.nonName[raw] = struct{}{}
	}
	a.countName(res.Class, raw)
}

// allNames keys the per-name counts of every input in seen.
const allNames Class = -1

func (a *Aggregator) countName(c Class, raw string) {
	if a.seen == nil {
		return
	}
	m := a.seen[c]
	if m == nil {
		m = make(map[string]int)
		a.seen[c] = m
	}
	m[raw]++
}

// Counts holds how many names fell into each class.
type Counts struct {
	All     int
	ByClass [numClasses]int
}

// Of returns the count for class c.
func (c Counts) Of(class Class) int {
	return c.ByClass[class]
}

// Streets is the number of names that look like real streets: all names
// minus stripped-status and non-name values.
func (c Counts) Streets() int {
	return c.All - c.ByClass[StrippedStatus] - c.ByClass[NonName]
}

// Fixable is the number of names a known correction exists for.
func (c Counts) Fixable() int {
	return c.ByClass[CanonicalForm] + c.ByClass[SpellingFixed]
}

// Stats is a snapshot of an Aggregator. Total counts every processed name
// and is only complete with PerStreetStats; Unique counts distinct names.
type Stats struct {
	PerStreet bool
	Total     Counts
	Unique    Counts
}

// Stats returns the current counters.
func (a *Aggregator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{
		PerStreet: a.flags&PerStreetStats != 0,
		Total:     Counts{All: a.total, ByClass: a.counts},
	}
	s.Unique.All = len(a.all)
	s.Unique.ByClass[ExactMatch] = len(a.exact)
	s.Unique.ByClass[CanonicalForm] = len(a.canonical)
	s.Unique.ByClass[SpellingFixed] = len(a.spelling)
	s.Unique.ByClass[StrippedStatus] = len(a.stripped)
	s.Unique.ByClass[NoMatch] = len(a.noMatch)
	s.Unique.ByClass[NonName] = len(a.nonName)
	return s
}

// Suggestion returns the recorded correction for a canonical-form or
// spelling-fixed name.
func (a *Aggregator) Suggestion(raw string) ([]string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s, ok := a.canonical[raw]; ok {
		return []string{s}, true
	}
	if s, ok := a.spelling[raw]; ok {
		return append([]string(nil), s...), true
	}
	return nil, false
}
