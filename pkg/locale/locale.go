// Package locale holds the per-language tables of street status words
// ("улица", "Street", ...) and the registry they are looked up from.
package locale

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownLocale is returned when a locale name is not registered.
	ErrUnknownLocale = errors.New("unknown locale")
	// ErrBadLocale is returned for a malformed status table: duplicate locale
	// name, entry without a full form, or a variant claimed by two entries.
	ErrBadLocale = errors.New("bad locale")
)

// Flags control where a status word belongs in a canonical name.
type Flags uint8

const (
	// ForceLeft places the status word first in the canonical form.
	ForceLeft Flags = 1 << iota
	// ForceRight places the status word last in the canonical form.
	ForceRight
	// RandomOrderIfLeft accepts a name found with the status word first in
	// either order.
	RandomOrderIfLeft
	// RandomOrderIfRight accepts a name found with the status word last in
	// either order.
	RandomOrderIfRight

	RandomOrder = RandomOrderIfLeft | RandomOrderIfRight
)

var flagNames = []struct {
	name string
	flag Flags
}{
	{"force_left", ForceLeft},
	{"force_right", ForceRight},
	{"random_order_if_left", RandomOrderIfLeft},
	{"random_order_if_right", RandomOrderIfRight},
	{"random_order", RandomOrder},
}

// UnmarshalText parses a "|"-separated flag list such as "force_left|random_order".
func (f *Flags) UnmarshalText(text []byte) error {
	var out Flags
	for _, part := range strings.Split(string(text), "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == part {
				out |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown status flag %q", part)
		}
	}
	*f = out
	return nil
}

// MarshalText renders flags in the form UnmarshalText accepts.
func (f Flags) MarshalText() ([]byte, error) {
	var parts []string
	rest := f
	if rest&RandomOrder == RandomOrder {
		parts = append(parts, "random_order")
		rest &^= RandomOrder
	}
	for _, fn := range flagNames {
		if fn.flag != RandomOrder && rest&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return []byte(strings.Join(parts, "|")), nil
}

func (f Flags) String() string {
	b, _ := f.MarshalText()
	return string(b)
}

// StatusPartData is one entry of a status table as declared in a locale file.
type StatusPartData struct {
	Full      string   `toml:"full"`
	Canonical string   `toml:"canonical,omitempty"`
	Abbrev    string   `toml:"abbrev,omitempty"`
	Variants  []string `toml:"variants,omitempty"`
	Flags     Flags    `toml:"flags,omitempty"`
}

// StatusPart is a status word resolved from a table. Lower priority values
// are preferred when one name contains several status words.
type StatusPart struct {
	priority  int
	full      string
	canonical string
	abbrev    string
	flags     Flags
}

func (p *StatusPart) Priority() int     { return p.priority }
func (p *StatusPart) Full() string      { return p.full }
func (p *StatusPart) Canonical() string { return p.canonical }
func (p *StatusPart) Abbrev() string    { return p.abbrev }
func (p *StatusPart) Flags() Flags      { return p.flags }

// IsPrior reports whether p should win over other. Any part wins over nil.
func (p *StatusPart) IsPrior(other *StatusPart) bool {
	return other == nil || p.priority < other.priority
}

// Locale is an immutable status table built from registered data.
type Locale struct {
	name  string
	parts []*StatusPart
	byAny map[string]*StatusPart
}

// build validates a table and resolves it into a Locale.
func build(name string, data []StatusPartData) (*Locale, error) {
	l := &Locale{
		name:  name,
		parts: make([]*StatusPart, 0, len(data)),
		byAny: make(map[string]*StatusPart),
	}

	for i, in := range data {
		if in.Full == "" {
			return nil, fmt.Errorf("%w: %s: entry %d has no full form", ErrBadLocale, name, i+1)
		}
		canonical := in.Canonical
		if canonical == "" {
			canonical = in.Full
		}
		abbrev := in.Abbrev
		if abbrev == "" {
			abbrev = canonical
		}

		part := &StatusPart{
			priority:  i + 1,
			full:      in.Full,
			canonical: canonical,
			abbrev:    abbrev,
			flags:     in.Flags,
		}
		l.parts = append(l.parts, part)

		variants := append([]string{in.Full, canonical}, in.Variants...)
		for _, v := range variants {
			key := variantKey(v)
			if key == "" {
				continue
			}
			if prev, ok := l.byAny[key]; ok && prev != part {
				return nil, fmt.Errorf("%w: %s: variant %q used by both %q and %q",
					ErrBadLocale, name, key, prev.full, part.full)
			}
			l.byAny[key] = part
		}
	}

	return l, nil
}

// variantKey maps a declared spelling to the form tokens are looked up by:
// lowercase, without the abbreviation dot which the tokenizer splits off.
func variantKey(v string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(v)), ".")
}

// Name returns the registered locale name.
func (l *Locale) Name() string {
	return l.name
}

// FindStatus looks up a lowercase token. It returns nil if the token is not
// a status word.
func (l *Locale) FindStatus(text string) *StatusPart {
	return l.byAny[text]
}

// StatusParts returns the table in priority order.
func (l *Locale) StatusParts() []*StatusPart {
	out := make([]*StatusPart, len(l.parts))
	copy(out, l.parts)
	return out
}
