package database

import (
	"fmt"
	"testing"

	"github.com/bastiangx/streetmangler/pkg/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t testing.TB, names ...string) *Database {
	t.Helper()
	loc, err := locale.Get("ru_RU")
	require.NoError(t, err)

	db := New(loc)
	for _, n := range names {
		db.Add(n)
	}
	return db
}

var corpus = []string{"улица Ленина", "Зелёная улица", "МКАД", "улица Льва Толстого"}

func TestExactMatch(t *testing.T) {
	db := newTestDatabase(t, corpus...)

	assert.True(t, db.CheckExactMatch("улица Ленина"))
	assert.True(t, db.CheckExactMatch("Зелёная улица"))
	assert.True(t, db.CheckExactMatch("МКАД"))
	assert.False(t, db.CheckExactMatch("улица Сталина"))
	assert.False(t, db.CheckExactMatch("переулок Ленина"))
	assert.False(t, db.CheckExactMatch("ул. Ленина"))
	assert.False(t, db.CheckExactMatch(""))

	assert.Equal(t, 4, db.Len())
}

func TestCanonicalForm(t *testing.T) {
	db := newTestDatabase(t, corpus...)

	inputs := []string{
		"ул.Ленина",
		"ул. Ленина",
		"Ленина улица",
		"Ленина ул",
		"Ленина ул.",
		"Ленина, ул",
		"Ленина, ул.",
		"Ленина,ул",
		"Ленина,ул.",
		"Ленина,улица",
		"Ленина, улица",
		"лЕНИНА, УЛИЦА",
		"УЛИЦА ЛЕНИНА",
		"   улица  ленина    ",
		"\tулица\tленина\t",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, []string{"улица Ленина"}, db.CheckCanonicalForm(input))
		})
	}

	assert.Equal(t, []string{"Зелёная улица"}, db.CheckCanonicalForm("ул. Зелёная"))
	assert.Empty(t, db.CheckCanonicalForm("переулок Ленина"))
	assert.Empty(t, db.CheckCanonicalForm("улица Сталина"))
}

func TestSpelling(t *testing.T) {
	db := newTestDatabase(t, corpus...)

	tests := []struct {
		name     string
		input    string
		distance int
		expected []string
	}{
		{"letter changed", "улица Ленена", 1, []string{"улица Ленина"}},
		{"letter removed", "улица Ленна", 1, []string{"улица Ленина"}},
		{"letter added", "улица Ленинаа", 1, []string{"улица Ленина"}},
		{"letters swapped", "улица Леинна", 1, []string{"улица Ленина"}},
		{"error in status", "улиа Ленина", 1, []string{"улица Ленина"}},
		{"swap in status", "уилца Ленина", 1, []string{"улица Ленина"}},
		{"ё written as е", "Зеленая улица", 1, []string{"Зелёная улица"}},
		{"word order", "Толстого Льва улица", 0, []string{"улица Льва Толстого"}},
		{"status moved and typo", "Ленена улица", 1, []string{"улица Ленина"}},
		{"two errors", "улица Феника", 1, nil},
		{"two errors wide", "улица Феника", 2, []string{"улица Ленина"}},
		{"two letters added", "улица Ленинааа", 1, nil},
		{"two letters added in status", "ууулица Ленина", 1, nil},
		{"two letters changed", "улица Линена", 1, nil},
		{"negative distance", "улица Ленина", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, db.CheckSpelling(tt.input, tt.distance))
		})
	}
}

func TestSpellingNumbers(t *testing.T) {
	db := newTestDatabase(t, "улица 8 Марта", "1-я Линия", "улица 40 лет Победы")

	assert.Empty(t, db.CheckSpelling("улица 9 Марта", 1))
	assert.Empty(t, db.CheckSpelling("2-я Линия", 1))
	assert.Empty(t, db.CheckSpelling("улица 41 лет Победы", 1))
	assert.Empty(t, db.CheckSpelling("улица 400 лет Победы", 1))

	// typos away from the number are still fixed
	assert.Equal(t, []string{"улица 8 Марта"}, db.CheckSpelling("улица 8 Мрата", 1))
	assert.Equal(t, []string{"1-я Линия"}, db.CheckSpelling("1-я Лниия", 1))
	assert.Equal(t, []string{"улица 40 лет Победы"}, db.CheckSpelling("улица 40 лет Пабеды", 1))
}

// A single edit anywhere in an indexed name must still find it.
func TestSpellingSingleEdits(t *testing.T) {
	db := newTestDatabase(t, corpus[:3]...)

	for _, n := range corpus[:3] {
		runes := []rune(n)
		var variants []string
		for i := range runes {
			variants = append(variants,
				string(runes[:i])+string(runes[i+1:]),
				string(runes[:i])+"ж"+string(runes[i+1:]),
			)
		}
		for i := 0; i <= len(runes); i++ {
			variants = append(variants, string(runes[:i])+"ж"+string(runes[i:]))
		}

		for _, v := range variants {
			assert.Contains(t, db.CheckSpelling(v, 1), n, "misspelling %q", v)
		}
	}
}

func TestStrippedStatus(t *testing.T) {
	db := newTestDatabase(t, corpus...)

	assert.Equal(t, []string{"улица Ленина"}, db.CheckStrippedStatus("Ленина"))
	assert.Equal(t, []string{"Зелёная улица"}, db.CheckStrippedStatus("Зелёная"))
	assert.Equal(t, []string{"Зелёная улица"}, db.CheckStrippedStatus("Зеленая"))
	assert.Equal(t, []string{"улица Льва Толстого"}, db.CheckStrippedStatus("Толстого Льва"))

	// МКАД never had a status word to strip
	assert.Empty(t, db.CheckStrippedStatus("МКАД"))
	assert.Empty(t, db.CheckStrippedStatus("Красная"))
}

func TestAddBlank(t *testing.T) {
	db := newTestDatabase(t, "", "   ", "\t")
	assert.Equal(t, 0, db.Len())
	assert.Equal(t, Stats{}, db.Stats())
}

func TestAddDuplicate(t *testing.T) {
	db := newTestDatabase(t, "улица Ленина", "улица Ленина", "ул. Ленина")
	assert.Equal(t, []string{"улица Ленина"}, db.CheckCanonicalForm("Ленина ул"))
	assert.Equal(t, []string{"улица Ленина"}, db.CheckSpelling("улица Ленена", 1))
	assert.Equal(t, []string{"улица Ленина"}, db.Names())
}

func TestRandomOrderVariants(t *testing.T) {
	db := newTestDatabase(t, "Солнечный микрорайон")

	assert.True(t, db.CheckExactMatch("Солнечный микрорайон"))
	assert.True(t, db.CheckExactMatch("микрорайон Солнечный"))
	assert.ElementsMatch(t,
		[]string{"Солнечный микрорайон", "микрорайон Солнечный"},
		db.CheckCanonicalForm("мкр Солнечный"))
	assert.ElementsMatch(t,
		[]string{"Солнечный микрорайон", "микрорайон Солнечный"},
		db.CheckStrippedStatus("Солнечный"))

	// fixed order statuses get a single variant
	db = newTestDatabase(t, "Зелёная улица")
	assert.False(t, db.CheckExactMatch("улица Зелёная"))
}

func TestAddWithFlags(t *testing.T) {
	db := newTestDatabase(t)
	db.AddWithFlags("Ленина улица", locale.ForceLeft)

	assert.True(t, db.CheckExactMatch("улица Ленина"))
	assert.False(t, db.CheckExactMatch("Ленина улица"))
	assert.Equal(t, []string{"улица Ленина"}, db.CheckCanonicalForm("Ленина ул."))
}

func TestCustomCanonicalForm(t *testing.T) {
	r := locale.NewRegistry()
	require.NoError(t, r.Register("test", []locale.StatusPartData{
		{Full: "улица", Canonical: "ул.", Abbrev: "ул.", Variants: []string{"улица", "ул"}},
		{Full: "проспект", Canonical: "просп.", Abbrev: "пр.", Variants: []string{"проспект", "просп", "пр"}},
	}))
	loc, err := r.Locale("test")
	require.NoError(t, err)

	db := New(loc)
	db.Add("проспект Ленина")
	db.Add("Зелёная улица")

	// exact match is against the canonical form
	assert.False(t, db.CheckExactMatch("проспект Ленина"))
	assert.True(t, db.CheckExactMatch("просп. Ленина"))
	assert.False(t, db.CheckExactMatch("пр. Ленина"))
	assert.False(t, db.CheckExactMatch("Зелёная улица"))
	assert.True(t, db.CheckExactMatch("Зелёная ул."))

	for _, input := range []string{"проспект Ленина", "пр. Ленина", "просп. Ленина"} {
		assert.Equal(t, []string{"просп. Ленина"}, db.CheckCanonicalForm(input), input)
	}
	for _, input := range []string{"ул.Зелёная", "Зелёная,улица"} {
		assert.Equal(t, []string{"Зелёная ул."}, db.CheckCanonicalForm(input), input)
	}

	assert.Len(t, db.CheckStrippedStatus("Ленина"), 1)
	assert.Len(t, db.CheckStrippedStatus("Зелёная"), 1)
	assert.Empty(t, db.CheckStrippedStatus("Красная"))
}

func TestComplete(t *testing.T) {
	db := newTestDatabase(t, corpus...)
	db.Add("улица Лесная")

	assert.Equal(t, []string{"улица Ленина", "улица Лесная"}, db.Complete("Ле", 0))
	assert.Equal(t, []string{"улица Ленина"}, db.Complete("улица лен", 10))
	assert.Equal(t, []string{"МКАД"}, db.Complete("мк", 10))
	assert.Len(t, db.Complete("улица", 2), 2)
	assert.Len(t, db.Complete("улица", 0), 3)
	assert.Empty(t, db.Complete("", 10))
	assert.Empty(t, db.Complete("Ъ", 10))
}

func TestStats(t *testing.T) {
	db := newTestDatabase(t, corpus...)
	stats := db.Stats()

	assert.Equal(t, 4, stats.Entries)
	assert.Equal(t, 4, stats.Names)
	assert.Equal(t, 4, stats.CanonicalKeys)
	assert.Equal(t, 3, stats.StrippedKeys)
	assert.Greater(t, stats.TrieNodes, 0)
	assert.Equal(t, []string{"Зелёная улица", "МКАД", "улица Ленина", "улица Льва Толстого"}, db.Names())
}

func BenchmarkCheckSpelling(b *testing.B) {
	db := newTestDatabase(b, corpus...)
	for i := 0; i < 1000; i++ {
		db.Add(fmt.Sprintf("улица Тестовая %d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		db.CheckSpelling("улица Ленена", 1)
	}
}
