// Package aggregator classifies street names against a database and collects
// statistics over a stream of them.
package aggregator

import (
	"github.com/bastiangx/streetmangler/pkg/locale"
	"github.com/bastiangx/streetmangler/pkg/name"
)

// Class is the outcome of checking one name.
type Class int

const (
	// ExactMatch means the name is in the database as written.
	ExactMatch Class = iota
	// CanonicalForm means the name differs from a known one only in the
	// form or position of its status part.
	CanonicalForm
	// SpellingFixed means a known name is within the spelling distance.
	SpellingFixed
	// StrippedStatus means a known name matches once status parts are
	// dropped, so the status is likely wrong.
	StrippedStatus
	// NoMatch means the name carries a status part but nothing matched.
	NoMatch
	// NonName means the value has no status part and is probably not a
	// street name at all.
	NonName
)

var classNames = [...]string{
	ExactMatch:     "exact_match",
	CanonicalForm:  "canonical_form",
	SpellingFixed:  "spelling_fixed",
	StrippedStatus: "stripped_status",
	NoMatch:        "no_match",
	NonName:        "non_name",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// Checker is the query side of a street name database.
type Checker interface {
	Locale() *locale.Locale
	CheckExactMatch(text string) bool
	CheckCanonicalFormName(n *name.Name) []string
	CheckSpellingName(n *name.Name, maxDistance int) []string
	CheckStrippedStatusName(n *name.Name) []string
}

// Result is a classified name with the database suggestions that led to it.
type Result struct {
	Class       Class
	Suggestions []string
}

// Classify runs the check cascade on raw: exact match, canonical form,
// spelling within distance, stripped status. The first check that succeeds
// decides the class.
func Classify(db Checker, raw string, distance int) Result {
	if db.CheckExactMatch(raw) {
		return Result{Class: ExactMatch}
	}
	return classifyName(db, name.New(raw, db.Locale()), distance)
}

func classifyName(db Checker, n *name.Name, distance int) Result {
	if s := db.CheckCanonicalFormName(n); len(s) > 0 {
		return Result{Class: CanonicalForm, Suggestions: s}
	}
	if s := db.CheckSpellingName(n, distance); len(s) > 0 {
		return Result{Class: SpellingFixed, Suggestions: s}
	}
	if s := db.CheckStrippedStatusName(n); len(s) > 0 {
		return Result{Class: StrippedStatus, Suggestions: s}
	}
	if n.HasStatusPart() {
		return Result{Class: NoMatch}
	}
	return Result{Class: NonName}
}
