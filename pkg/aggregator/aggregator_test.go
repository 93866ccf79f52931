package aggregator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/streetmangler/pkg/database"
	"github.com/bastiangx/streetmangler/pkg/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T, names ...string) *database.Database {
	t.Helper()
	loc, err := locale.Get("ru_RU")
	require.NoError(t, err)
	db := database.New(loc)
	for _, n := range names {
		db.Add(n)
	}
	return db
}

var corpus = []string{"улица Ленина", "Зелёная улица", "МКАД", "улица Льва Толстого"}

func TestClassify(t *testing.T) {
	db := newTestDatabase(t, corpus...)

	tests := []struct {
		input       string
		class       Class
		suggestions []string
	}{
		{"улица Ленина", ExactMatch, nil},
		{"МКАД", ExactMatch, nil},
		{"ул. Ленина", CanonicalForm, []string{"улица Ленина"}},
		{"Ленина улица", CanonicalForm, []string{"улица Ленина"}},
		{"улица Ленена", SpellingFixed, []string{"улица Ленина"}},
		{"Зеленая улица", SpellingFixed, []string{"Зелёная улица"}},
		{"Ленина", StrippedStatus, []string{"улица Ленина"}},
		{"ул. Сталина", NoMatch, nil},
		{"Магазин", NonName, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Classify(db, tt.input, 1)
			assert.Equal(t, tt.class, res.Class)
			assert.Equal(t, tt.suggestions, res.Suggestions)
		})
	}
}

func TestClassifyDistanceZero(t *testing.T) {
	db := newTestDatabase(t, corpus...)
	assert.Equal(t, NoMatch, Classify(db, "улица Ленена", 0).Class)
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "exact_match", ExactMatch.String())
	assert.Equal(t, "canonical_form", CanonicalForm.String())
	assert.Equal(t, "spelling_fixed", SpellingFixed.String())
	assert.Equal(t, "stripped_status", StrippedStatus.String())
	assert.Equal(t, "no_match", NoMatch.String())
	assert.Equal(t, "non_name", NonName.String())
	assert.Equal(t, "unknown", Class(42).String())
}

var stream = []string{
	"улица Ленина",
	"улица Ленина",
	"ул. Ленина",
	"улица Ленена",
	"Зеленая улица",
	"Ленина",
	"ул. Сталина",
	"Магазин",
	"Магазин",
}

func TestAggregatorUniqueOnly(t *testing.T) {
	a := New(newTestDatabase(t, corpus...), 0, 1)
	for _, n := range stream {
		a.ProcessName(n)
	}

	s := a.Stats()
	assert.False(t, s.PerStreet)
	assert.Equal(t, 9, s.Total.All)
	// repeats are not classified again
	assert.Equal(t, 1, s.Total.Of(ExactMatch))
	assert.Equal(t, 1, s.Total.Of(NonName))

	assert.Equal(t, 7, s.Unique.All)
	assert.Equal(t, [numClasses]int{1, 1, 2, 1, 1, 1}, s.Unique.ByClass)
	assert.Equal(t, 5, s.Unique.Streets())
	assert.Equal(t, 3, s.Unique.Fixable())
}

func TestAggregatorPerStreet(t *testing.T) {
	a := New(newTestDatabase(t, corpus...), PerStreetStats, 1)
	for _, n := range stream {
		a.ProcessName(n)
	}

	s := a.Stats()
	assert.True(t, s.PerStreet)
	assert.Equal(t, 9, s.Total.All)
	assert.Equal(t, [numClasses]int{2, 1, 2, 1, 1, 2}, s.Total.ByClass)
	assert.Equal(t, 6, s.Total.Streets())
	assert.Equal(t, 3, s.Total.Fixable())
	assert.Equal(t, [numClasses]int{1, 1, 2, 1, 1, 1}, s.Unique.ByClass)

	sug, ok := a.Suggestion("ул. Ленина")
	assert.True(t, ok)
	assert.Equal(t, []string{"улица Ленина"}, sug)
	sug, ok = a.Suggestion("Зеленая улица")
	assert.True(t, ok)
	assert.Equal(t, []string{"Зелёная улица"}, sug)
	_, ok = a.Suggestion("Магазин")
	assert.False(t, ok)
}

func TestAggregatorConcurrent(t *testing.T) {
	a := New(newTestDatabase(t, corpus...), PerStreetStats, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range stream {
				a.ProcessName(n)
			}
		}()
	}
	wg.Wait()

	s := a.Stats()
	assert.Equal(t, 72, s.Total.All)
	assert.Equal(t, 16, s.Total.Of(ExactMatch))
	assert.Equal(t, 7, s.Unique.All)
}

func TestWriteStats(t *testing.T) {
	a := New(newTestDatabase(t, corpus...), PerStreetStats, 1)
	for _, n := range stream {
		a.ProcessName(n)
	}

	var buf bytes.Buffer
	require.NoError(t, a.WriteStats(&buf))
	out := buf.String()

	assert.Contains(t, out, "Classification statistics:")
	assert.Contains(t, out, "Generalized database statistics:")
	assert.Contains(t, out, "Spelling fixed")
	assert.Contains(t, out, "Fixable")
	// header and row in each table
	assert.Equal(t, 4, strings.Count(out, "Total"))
	assert.Equal(t, 2, strings.Count(out, "Unique"))
	// 2 of 9 exact matches per street, 3 of 6 streets fixable
	assert.Contains(t, out, " 22.22%")
	assert.Contains(t, out, " 50.00%")
}

func TestWriteStatsUniqueOnly(t *testing.T) {
	a := New(newTestDatabase(t, corpus...), 0, 1)

	var buf bytes.Buffer
	require.NoError(t, a.WriteStats(&buf))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "Total"))
	assert.Equal(t, 2, strings.Count(out, "Unique"))
	assert.Contains(t, out, "  0.00%")
}

func readDump(t *testing.T, dir, file string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, file))
	require.NoError(t, err, file)
	return string(data)
}

func TestDumpData(t *testing.T) {
	a := New(newTestDatabase(t, corpus...), CountNames, 1)
	for _, n := range stream {
		a.ProcessName(n)
	}

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, a.DumpData(dir))

	assert.Equal(t, "Зеленая улица\nЛенина\nМагазин\nул. Ленина\nул. Сталина\nулица Ленена\nулица Ленина\n",
		readDump(t, dir, "dump.all.txt"))
	assert.Equal(t, "улица Ленина\n", readDump(t, dir, "dump.exact_match.txt"))
	assert.Equal(t, "ул. Ленина|улица Ленина\n", readDump(t, dir, "dump.canonical_form.txt"))
	assert.Equal(t, "Зеленая улица|Зелёная улица\nулица Ленена|улица Ленина\n",
		readDump(t, dir, "dump.spelling_fixed.txt"))
	assert.Equal(t, "Ленина\n", readDump(t, dir, "dump.stripped_status.txt"))
	assert.Equal(t, "ул. Сталина\n", readDump(t, dir, "dump.no_match.txt"))
	assert.Equal(t, "улица Сталина\n", readDump(t, dir, "dump.no_match.full.txt"))
	assert.Equal(t, "Магазин\n", readDump(t, dir, "dump.non_name.txt"))

	assert.Contains(t, readDump(t, dir, "dump.counts.all.txt"), "     2 улица Ленина\n")
	assert.Equal(t, "     2 Магазин\n", readDump(t, dir, "dump.counts.non_name.txt"))
	assert.Equal(t, "     1 ул. Сталина\n", readDump(t, dir, "dump.counts.no_match.txt"))
	assert.Equal(t, "     1 Ленина\n", readDump(t, dir, "dump.counts.stripped_status.txt"))
	assert.Equal(t, "     1 Зеленая улица\n     1 улица Ленена\n",
		readDump(t, dir, "dump.counts.spelling_fixed.txt"))
}

func TestDumpWithoutCounts(t *testing.T) {
	a := New(newTestDatabase(t, corpus...), 0, 1)
	a.ProcessName("Магазин")

	dir := t.TempDir()
	require.NoError(t, a.DumpData(dir))
	_, err := os.Stat(filepath.Join(dir, "dump.counts.all.txt"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "", readDump(t, dir, "dump.canonical_form.txt"))
}

func TestDumpAmbiguousSpelling(t *testing.T) {
	a := New(newTestDatabase(t, "улица Ленина", "улица Ленино"), 0, 1)
	a.ProcessName("улица Ленинп")

	dir := t.TempDir()
	require.NoError(t, a.DumpData(dir))

	line := readDump(t, dir, "dump.spelling_fixed.txt")
	assert.True(t, strings.HasPrefix(line, "улица Ленинп # ("), line)
	assert.Contains(t, line, "улица Ленина")
	assert.Contains(t, line, "улица Ленино")
	assert.True(t, strings.HasSuffix(line, ")\n"), line)
}
