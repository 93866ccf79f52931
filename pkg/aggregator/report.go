package aggregator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/streetmangler/internal/utils"
	"github.com/bastiangx/streetmangler/pkg/name"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	labelStyle = lipgloss.NewStyle().Italic(true).Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "#907aa9", Dark: "#c4a7e7"})
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"})
)

func cell(n, total int) string {
	return fmt.Sprintf("%8d (%s)", n, utils.Percent(n, total))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})
}

type statsRow struct {
	label string
	c     Counts
}

// rows lists the counters to report: Total only with per-street stats.
func (s Stats) rows() []statsRow {
	var out []statsRow
	if s.PerStreet {
		out = append(out, statsRow{"Total", s.Total})
	}
	return append(out, statsRow{"Unique", s.Unique})
}

// ClassificationTable renders the per-class breakdown.
func (s Stats) ClassificationTable() string {
	t := newTable("", "Total", "Exact match", "Canonical form", "Spelling fixed",
		"Stripped status", "No match", "Non-names")
	for _, r := range s.rows() {
		row := []string{r.label, fmt.Sprintf("%8d", r.c.All)}
		for class := ExactMatch; class <= NonName; class++ {
			row = append(row, cell(r.c.Of(class), r.c.All))
		}
		t.Row(row...)
	}
	return t.String()
}

// GeneralizedTable renders match / fixable / no match over street-like names.
func (s Stats) GeneralizedTable() string {
	t := newTable("", "Total", "Match", "Fixable", "No match")
	for _, r := range s.rows() {
		streets := r.c.Streets()
		t.Row(r.label,
			fmt.Sprintf("%8d", streets),
			cell(r.c.Of(ExactMatch), streets),
			cell(r.c.Fixable(), streets),
			cell(r.c.Of(NoMatch), streets),
		)
	}
	return t.String()
}

// WriteStats writes both statistics tables to w.
func (a *Aggregator) WriteStats(w io.Writer) error {
	s := a.Stats()
	_, err := fmt.Fprintf(w, "Classification statistics:\n%s\nGeneralized database statistics:\n%s\n",
		s.ClassificationTable(), s.GeneralizedTable())
	return err
}

// DumpData writes the collected names into dump.*.txt files in dir, one
// name per line in sorted order. Canonical-form and single-suggestion
// spelling fixes are written as "name|suggestion", ambiguous spelling fixes
// as "name # (a, b)". dump.no_match.full.txt holds the unmatched names with
// their status expanded. With CountNames, dump.counts.*.txt hold
// "count name" lines.
func (a *Aggregator) DumpData(dir string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("cannot create dump directory: %w", err)
	}

	loc := a.db.Locale()
	dumps := []struct {
		file  string
		lines []string
	}{
		{"dump.all.txt", utils.SortedKeys(a.all)},
		{"dump.exact_match.txt", utils.SortedKeys(a.exact)},
		{"dump.canonical_form.txt", mapLines(utils.SortedKeys(a.canonical), func(k string) string {
			return k + "|" + a.canonical[k]
		})},
		{"dump.spelling_fixed.txt", mapLines(utils.SortedKeys(a.spelling), func(k string) string {
			s := a.spelling[k]
			if len(s) == 1 {
				return k + "|" + s[0]
			}
			return k + " # (" + strings.Join(s, ", ") + ")"
		})},
		{"dump.stripped_status.txt", utils.SortedKeys(a.stripped)},
		{"dump.no_match.txt", utils.SortedKeys(a.noMatch)},
		{"dump.no_match.full.txt", mapLines(utils.SortedKeys(a.noMatch), func(k string) string {
			return name.New(k, loc).Join(name.ExpandStatus)
		})},
		{"dump.non_name.txt", utils.SortedKeys(a.nonName)},
	}

	if a.seen != nil {
		counted := []struct {
			file  string
			class Class
		}{
			{"dump.counts.all.txt", allNames},
			{"dump.counts.spelling_fixed.txt", SpellingFixed},
			{"dump.counts.stripped_status.txt", StrippedStatus},
			{"dump.counts.no_match.txt", NoMatch},
			{"dump.counts.non_name.txt", NonName},
		}
		for _, c := range counted {
			m := a.seen[c.class]
			dumps = append(dumps, struct {
				file  string
				lines []string
			}{c.file, mapLines(utils.SortedKeys(m), func(k string) string {
				return utils.FormatCount(m[k], k)
			})})
		}
	}

	for _, d := range dumps {
		if err := writeLines(filepath.Join(dir, d.file), d.lines); err != nil {
			return err
		}
	}
	return nil
}

func mapLines(keys []string, f func(string) string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = f(k)
	}
	return out
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create dump file: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, l := range lines {
		w.WriteString(l)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}
