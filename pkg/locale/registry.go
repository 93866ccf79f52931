package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed tables/*.toml
var builtinTables embed.FS

// TableFile is the on-disk layout of a locale table.
type TableFile struct {
	Locale string           `toml:"locale"`
	Status []StatusPartData `toml:"status"`
}

// Registry maps locale names to status tables. Tables are registered during
// startup and only read afterwards; Registry is not safe for registration
// concurrent with lookups.
type Registry struct {
	tables map[string][]StatusPartData
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string][]StatusPartData)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process registry holding the builtin tables.
func Default() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		if err := r.RegisterFS(builtinTables, "tables"); err != nil {
			// builtin tables are covered by tests
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Get builds a locale from the default registry.
func Get(name string) (*Locale, error) {
	return Default().Locale(name)
}

// Register adds a named table. The table is validated up front so a broken
// table fails at startup rather than on first use.
func (r *Registry) Register(name string, parts []StatusPartData) error {
	if name == "" {
		return fmt.Errorf("%w: empty locale name", ErrBadLocale)
	}
	if _, exists := r.tables[name]; exists {
		return fmt.Errorf("%w: locale %q already registered", ErrBadLocale, name)
	}
	if _, err := build(name, parts); err != nil {
		return err
	}

	owned := make([]StatusPartData, len(parts))
	copy(owned, parts)
	r.tables[name] = owned

	log.Debugf("Registered locale %s with %d status words", name, len(parts))
	return nil
}

// Locale builds the named locale. Building is a pure function of the
// registered table, so two calls yield equivalent locales.
func (r *Registry) Locale(name string) (*Locale, error) {
	parts, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, name)
	}
	return build(name, parts)
}

// Names returns the registered locale names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterTable decodes a TOML table and registers it.
func (r *Registry) RegisterTable(data []byte) error {
	var tf TableFile
	if _, err := toml.Decode(string(data), &tf); err != nil {
		return fmt.Errorf("%w: %v", ErrBadLocale, err)
	}
	return r.Register(tf.Locale, tf.Status)
}

// RegisterFile registers a TOML table from disk.
func (r *Registry) RegisterFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read locale table: %w", err)
	}
	if err := r.RegisterTable(data); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// RegisterFS registers every *.toml table in dir of fsys.
func (r *Registry) RegisterFS(fsys fs.FS, dir string) error {
	files, err := fs.Glob(fsys, path.Join(dir, "*.toml"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return err
		}
		if err := r.RegisterTable(data); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}
