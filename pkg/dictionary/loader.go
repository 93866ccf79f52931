// Package dictionary reads street name lists into a database.
//
// A list holds one name per line. "#" starts a comment, runs of blanks
// collapse into one space and a trailing "\" continues the name on the next
// line. A line of the form
//
//	.include <pattern>
//
// loads every file matching the doublestar pattern, resolved against the
// directory of the including file, in lexical order.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bastiangx/streetmangler/internal/logger"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// MaxIncludeDepth bounds nested .include directives.
const MaxIncludeDepth = 16

var (
	// ErrIncludeDepth is returned when includes nest deeper than MaxIncludeDepth,
	// which usually means a file includes itself.
	ErrIncludeDepth = errors.New("include nesting too deep")
	// ErrBadDirective is returned for a "." directive other than .include.
	ErrBadDirective = errors.New("unknown directive")
)

// Adder receives loaded names. *database.Database implements it.
type Adder interface {
	Add(name string)
}

// LoaderStats describes what a Loader has read so far.
type LoaderStats struct {
	Files   int
	Names   int
	Skipped int
}

// Loader reads name lists.
type Loader struct {
	stats LoaderStats
	log   *log.Logger
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{log: logger.New("loader")}
}

// Stats returns counters accumulated over all loads.
func (l *Loader) Stats() LoaderStats {
	return l.stats
}

// LoadFile reads the list at filename and passes each name to sink.
func (l *Loader) LoadFile(filename string, sink func(string)) error {
	return l.loadFile(filename, sink, 0)
}

// LoadReader reads a list from r. Includes are resolved against dir.
func (l *Loader) LoadReader(r io.Reader, dir string, sink func(string)) error {
	return l.load(r, "<input>", dir, sink, 0)
}

// LoadInto loads the given files into db and returns the number of names
// added. Files that cannot be opened are logged and skipped; malformed files
// abort the load.
func (l *Loader) LoadInto(db Adder, filenames ...string) (int, error) {
	added := 0
	sink := func(name string) {
		db.Add(name)
		added++
	}

	for _, filename := range filenames {
		err := l.LoadFile(filename, sink)
		if err == nil {
			continue
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			l.log.Warnf("Skipping %s: %v", filename, err)
			l.stats.Skipped++
			continue
		}
		return added, err
	}

	return added, nil
}

func (l *Loader) loadFile(filename string, sink func(string), depth int) error {
	if depth > MaxIncludeDepth {
		return fmt.Errorf("%w: %s", ErrIncludeDepth, filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open name list: %w", err)
	}
	defer f.Close()

	l.log.Debugf("Loading names from %s", filename)
	l.stats.Files++
	return l.load(f, filename, filepath.Dir(filename), sink, depth)
}

func (l *Loader) load(r io.Reader, source, dir string, sink func(string), depth int) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending strings.Builder
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, `\`) {
			pending.WriteString(strings.TrimSuffix(trimmed, `\`))
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(line)

		logical := collapse(pending.String())
		pending.Reset()
		if logical == "" {
			continue
		}

		if isDirective(logical) {
			if err := l.directive(logical, source, lineNo, dir, sink, depth); err != nil {
				return err
			}
			continue
		}

		sink(logical)
		l.stats.Names++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read error on %s: %w", source, err)
	}

	if rest := collapse(pending.String()); rest != "" {
		sink(rest)
		l.stats.Names++
	}
	return nil
}

func (l *Loader) directive(line, source string, lineNo int, dir string, sink func(string), depth int) error {
	word, arg, _ := strings.Cut(line, " ")
	if word != ".include" {
		return fmt.Errorf("%w %q at %s:%d", ErrBadDirective, word, source, lineNo)
	}
	if arg == "" {
		return fmt.Errorf("%w: .include without a pattern at %s:%d", ErrBadDirective, source, lineNo)
	}

	pattern := arg
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(dir, pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("bad include pattern %q at %s:%d: %w", arg, source, lineNo, err)
	}
	if len(matches) == 0 {
		l.log.Warnf("%s:%d: include pattern %q matched nothing", source, lineNo, arg)
		return nil
	}
	sort.Strings(matches)

	for _, match := range matches {
		l.log.Debugf("%s:%d: including %s", source, lineNo, match)
		if err := l.loadFile(match, sink, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// isDirective reports whether a logical line is a ".word" directive.
func isDirective(line string) bool {
	if len(line) < 2 || line[0] != '.' {
		return false
	}
	c := line[1]
	return c >= 'a' && c <= 'z'
}

// collapse trims s and replaces every run of spaces and tabs with one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
