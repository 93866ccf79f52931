package database

import (
	"sort"
	"strings"

	"github.com/bastiangx/streetmangler/pkg/locale"
	"github.com/bastiangx/streetmangler/pkg/name"
	"golang.org/x/text/unicode/norm"
)

const hashFlags = name.ExpandStatus | name.NormalizeWhitespace | name.NormalizePunct

// hashes are the index keys derived from one name.
type hashes struct {
	// plain has the status word expanded and moved to its side.
	plain string
	// ordered is plain with the other words sorted.
	ordered string
	// unordered keeps the status word where it was found.
	unordered string
}

// statusSide returns the side a status word with the given flags is kept on
// in hashes and canonical forms.
func statusSide(flags locale.Flags) name.JoinFlags {
	if flags&locale.ForceRight != 0 {
		return name.StatusToRight
	}
	return name.StatusToLeft
}

// canonicalPos returns the placement flags for a canonical form. Unlike
// hashes, canonical forms keep the original order unless the locale forces it.
func canonicalPos(flags locale.Flags) name.JoinFlags {
	switch {
	case flags&locale.ForceLeft != 0:
		return name.StatusToLeft
	case flags&locale.ForceRight != 0:
		return name.StatusToRight
	}
	return 0
}

func normalizeHash(s string) string {
	return norm.NFC.String(strings.ToLower(s))
}

func computeHashes(n *name.Name) hashes {
	side := statusSide(n.StatusFlags())
	plain := normalizeHash(n.Join(hashFlags | side))
	return hashes{
		plain:     plain,
		ordered:   orderWords(plain, n.HasStatusPart(), side),
		unordered: normalizeHash(n.Join(hashFlags)),
	}
}

// strippedHash drops every status word, sorts what is left and folds ё into е.
func strippedHash(n *name.Name) (raw, folded string) {
	raw = orderWords(normalizeHash(n.Join(hashFlags|name.RemoveAllStatuses)), false, 0)
	return raw, foldYo(raw)
}

// orderWords sorts the words of a hash. With keepStatus the status word stays
// at the side it was moved to.
func orderWords(hash string, keepStatus bool, side name.JoinFlags) string {
	words := strings.Fields(hash)
	switch {
	case !keepStatus || len(words) < 2:
		sort.Strings(words)
	case side == name.StatusToRight:
		sort.Strings(words[:len(words)-1])
	default:
		sort.Strings(words[1:])
	}
	return strings.Join(words, " ")
}

var yoReplacer = strings.NewReplacer("ё", "е")

func foldYo(s string) string {
	return yoReplacer.Replace(s)
}
