package database

import "unicode"

// Reject is returned by GetRealApproxDistance for a candidate that must not
// match at any distance.
const Reject = -1

// GetRealApproxDistance refines the plain edit distance between sample and
// candidate:
//
//   - a difference touching a number ("1-я" vs "2-я") is rejected;
//   - a single ё/е swap costs nothing;
//   - a transposition of two adjacent letters costs one edit.
//
// Any other distance is returned unchanged.
func GetRealApproxDistance(sample, candidate string, distance int) int {
	if distance == 0 {
		return 0
	}

	a, b := []rune(sample), []rune(candidate)
	shortest := min(len(a), len(b))

	prefix := 0
	for prefix < shortest && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < shortest-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	da := a[prefix : len(a)-suffix]
	db := b[prefix : len(b)-suffix]

	if hasDigit(da) || hasDigit(db) {
		if allDigits(da) && allDigits(db) {
			return Reject
		}
		if prefix > 0 && unicode.IsDigit(a[prefix-1]) {
			return Reject
		}
		if suffix > 0 && unicode.IsDigit(a[len(a)-suffix]) {
			return Reject
		}
	}

	if distance == 1 && len(da) == 1 && len(db) == 1 && confusable(da[0], db[0]) {
		return 0
	}

	if distance == 2 && len(da) == 2 && len(db) == 2 && da[0] == db[1] && da[1] == db[0] {
		return 1
	}

	return distance
}

func confusable(x, y rune) bool {
	return (x == 'ё' && y == 'е') || (x == 'е' && y == 'ё')
}

func hasDigit(rs []rune) bool {
	for _, r := range rs {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// allDigits is true for an empty slice.
func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
