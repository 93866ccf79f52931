package name

import "strings"

// JoinFlags select how Join reassembles a name.
type JoinFlags uint16

const (
	// StatusToLeft moves the status word to the front.
	StatusToLeft JoinFlags = 0x0001
	// StatusToRight moves the status word to the back.
	StatusToRight JoinFlags = 0x0002

	StatusPosMask JoinFlags = 0x0003

	// ExpandStatus writes the status word in full ("улица").
	ExpandStatus JoinFlags = 0x0010
	// ShrinkStatus writes the abbreviation ("ул.").
	ShrinkStatus JoinFlags = 0x0020
	// CanonicalizeStatus writes the canonical form.
	CanonicalizeStatus JoinFlags = 0x0030
	// RemoveAllStatuses drops every status word, not only the chosen one.
	RemoveAllStatuses JoinFlags = 0x0040

	StatusModeMask JoinFlags = 0x0070

	// NormalizePunct turns a comma next to the status word into a space.
	NormalizePunct JoinFlags = 0x0100
	// NormalizeWhitespace trims the result and collapses whitespace runs.
	NormalizeWhitespace JoinFlags = 0x0200
)

// Join reassembles the name. With zero flags the original text is returned.
func (n *Name) Join(flags JoinFlags) string {
	out := make([]Token, len(n.tokens))
	copy(out, n.tokens)

	if n.status >= 0 {
		out = n.rewrite(out, flags)
	}

	var sb strings.Builder
	if flags&NormalizeWhitespace == 0 {
		for _, t := range out {
			sb.WriteString(t.Text)
		}
		return sb.String()
	}

	i := 0
	for i < len(out) && out[i].Kind == Space {
		i++
	}
	wasSpace := false
	for ; i < len(out); i++ {
		switch {
		case out[i].Kind == Space && wasSpace:
		case out[i].Kind == Space:
			sb.WriteByte(' ')
			wasSpace = true
		default:
			sb.WriteString(out[i].Text)
			wasSpace = false
		}
	}
	return strings.TrimRight(sb.String(), " \t")
}

// rewrite applies the status related flags to a copy of the tokens.
func (n *Name) rewrite(out []Token, flags JoinFlags) []Token {
	si := n.status
	part := out[si].Status

	// moved or removed status words never keep a comma next to them
	if flags&(StatusPosMask|RemoveAllStatuses) != 0 {
		flags |= NormalizePunct
	}

	if flags&(StatusModeMask|NormalizePunct) != 0 {
		switch flags & StatusModeMask {
		case ExpandStatus:
			out[si].Text = part.Full()
		case ShrinkStatus:
			out[si].Text = part.Abbrev()
		case CanonicalizeStatus:
			out[si].Text = part.Canonical()
		}

		// fold an abbreviation dot into the status word
		if si+1 < len(out) && out[si+1].Text == "." {
			if flags&(ExpandStatus|ShrinkStatus) == 0 {
				out[si].Text += "."
			}
			if si+2 < len(out) && out[si+2].Kind != Space {
				out[si+1] = space()
			} else {
				out = removeAt(out, si+1)
			}
		}

		if flags&NormalizeWhitespace != 0 && si > 0 && out[si-1].Text == "," {
			out = insertAt(out, si, space())
			si++
		}

		if flags&NormalizePunct != 0 && si > 0 {
			c := si - 1
			// "Ленина,улица"
			if out[c].Text == "," {
				out[c] = space()
			}
			// "Ленина, улица"
			if out[c].Kind == Space && c > 0 && out[c-1].Text == "," {
				out = removeAt(out, c-1)
				si--
			}
		}
	}

	atLeft := si == 0
	atRight := si == len(out)-1

	switch {
	case flags&RemoveAllStatuses != 0:
		for i := 0; i < len(out); {
			if out[i].Status == nil {
				i++
				continue
			}
			var sides int
			out, i, sides = excise(out, i)
			if sides == 2 {
				i++
			}
		}

	case (!atLeft && flags&StatusToLeft != 0) || (!atRight && flags&StatusToRight != 0):
		saved := out[si]
		out, _, _ = excise(out, si)

		if flags&StatusToLeft != 0 {
			if len(out) > 0 {
				out = insertAt(out, 0, space())
			}
			out = insertAt(out, 0, saved)
		} else {
			if len(out) > 0 {
				out = append(out, space())
			}
			out = append(out, saved)
		}
	}

	return out
}

// excise removes the token at i together with the spaces around it. A token
// that had spaces on both sides is replaced by a single space. It returns the
// new slice, the index the token occupied and how many spaces were removed.
func excise(out []Token, i int) ([]Token, int, int) {
	sides := 0
	if i > 0 && out[i-1].Kind == Space {
		out = removeAt(out, i-1)
		i--
		sides++
	}
	if i < len(out)-1 && out[i+1].Kind == Space {
		out = removeAt(out, i+1)
		sides++
	}

	if sides == 2 {
		out[i] = space()
	} else {
		out = removeAt(out, i)
	}
	return out, i, sides
}

func removeAt(s []Token, i int) []Token {
	return append(s[:i], s[i+1:]...)
}

func insertAt(s []Token, i int, t Token) []Token {
	s = append(s, Token{})
	copy(s[i+1:], s[i:])
	s[i] = t
	return s
}
