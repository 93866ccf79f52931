package utils

import (
	"fmt"
	"sort"
)

// Percent formats part as a percentage of total, padded for tables.
// A zero total counts as one so empty runs print 0.00%.
func Percent(part, total int) string {
	if total <= 0 {
		total = 1
	}
	return fmt.Sprintf("%6.2f%%", float64(part)/float64(total)*100)
}

// FormatCount renders a counted line the way dump.counts files store it.
func FormatCount(count int, s string) string {
	return fmt.Sprintf("%6d %s", count, s)
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
