// Package name splits a street name into tokens, finds its status word and
// reassembles it under normalization flags.
package name

import (
	"strings"

	"github.com/bastiangx/streetmangler/pkg/locale"
)

// Kind classifies a token.
type Kind uint8

const (
	Space Kind = iota + 1
	Punct
	Alpha
)

func (k Kind) String() string {
	switch k {
	case Space:
		return "space"
	case Punct:
		return "punct"
	case Alpha:
		return "alpha"
	default:
		return "invalid"
	}
}

// Token is a maximal run of characters of the same Kind.
// Status is set for alpha tokens that are status words of the locale.
type Token struct {
	Kind   Kind
	Text   string
	Status *locale.StatusPart
}

func space() Token {
	return Token{Kind: Space, Text: " "}
}

// Name is a tokenized street name.
type Name struct {
	tokens []Token
	status int
}

func classify(r rune) Kind {
	switch r {
	case ' ', '\t':
		return Space
	case '.', ',':
		return Punct
	default:
		return Alpha
	}
}

// New tokenizes text and resolves its status word against loc.
// When several tokens are status words the one with the best priority wins,
// and on equal priority the first one.
func New(text string, loc *locale.Locale) *Name {
	n := &Name{status: -1}

	start := 0
	var kind Kind
	for i, r := range text {
		k := classify(r)
		if k != kind {
			if i > start {
				n.tokens = append(n.tokens, Token{Kind: kind, Text: text[start:i]})
			}
			start, kind = i, k
		}
	}
	if len(text) > start {
		n.tokens = append(n.tokens, Token{Kind: kind, Text: text[start:]})
	}

	var best *locale.StatusPart
	for i := range n.tokens {
		if n.tokens[i].Kind != Alpha {
			continue
		}
		part := loc.FindStatus(strings.ToLower(n.tokens[i].Text))
		if part == nil {
			continue
		}
		n.tokens[i].Status = part
		if part.IsPrior(best) {
			best = part
			n.status = i
		}
	}

	return n
}

// Tokens returns a copy of the token sequence.
func (n *Name) Tokens() []Token {
	out := make([]Token, len(n.tokens))
	copy(out, n.tokens)
	return out
}

// HasStatusPart reports whether a status word was found.
func (n *Name) HasStatusPart() bool {
	return n.status >= 0
}

// StatusPart returns the chosen status word, or nil.
func (n *Name) StatusPart() *locale.StatusPart {
	if n.status < 0 {
		return nil
	}
	return n.tokens[n.status].Status
}

// StatusFlags returns the locale flags of the chosen status word.
func (n *Name) StatusFlags() locale.Flags {
	if p := n.StatusPart(); p != nil {
		return p.Flags()
	}
	return 0
}

// StatusAtLeft reports whether the status word is the first non-space token.
func (n *Name) StatusAtLeft() bool {
	if n.status < 0 {
		return false
	}
	for i := 0; i < n.status; i++ {
		if n.tokens[i].Kind != Space {
			return false
		}
	}
	return true
}

// StatusAtRight reports whether the status word is the last token apart from
// spaces and a trailing abbreviation dot.
func (n *Name) StatusAtRight() bool {
	if n.status < 0 {
		return false
	}
	for i := n.status + 1; i < len(n.tokens); i++ {
		t := n.tokens[i]
		if t.Kind == Space || (i == n.status+1 && t.Text == ".") {
			continue
		}
		return false
	}
	return true
}

// String returns the name as it was given.
func (n *Name) String() string {
	return n.Join(0)
}
