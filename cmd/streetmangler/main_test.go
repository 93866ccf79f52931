package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/streetmangler/pkg/aggregator"
	"github.com/bastiangx/streetmangler/pkg/config"
	"github.com/bastiangx/streetmangler/pkg/database"
	"github.com/bastiangx/streetmangler/pkg/dictionary"
	"github.com/bastiangx/streetmangler/pkg/locale"
	"github.com/bastiangx/streetmangler/pkg/osm"
)

func TestApplyFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	o := &options{
		localeName:     "en_GB",
		distance:       2,
		corpus:         stringList{"a.txt"},
		nameTags:       stringList{"name:en"},
		noAddrDefaults: true,
		set:            map[string]bool{"l": true},
	}
	applyFlags(cfg, o)

	if cfg.Matcher.Locale != "en_GB" {
		t.Errorf("locale = %q", cfg.Matcher.Locale)
	}
	// -p was not given, the config value stays
	if cfg.Matcher.Distance != 1 {
		t.Errorf("distance = %d", cfg.Matcher.Distance)
	}
	if len(cfg.Corpus.Files) != 1 || cfg.Corpus.Files[0] != "a.txt" {
		t.Errorf("corpus = %v", cfg.Corpus.Files)
	}
	if len(cfg.OSM.AddrTags) != 0 {
		t.Errorf("addr tags = %v", cfg.OSM.AddrTags)
	}
	if len(cfg.OSM.NameTags) != 1 || cfg.OSM.NameTags[0] != "name:en" {
		t.Errorf("name tags = %v", cfg.OSM.NameTags)
	}
}

func TestStringList(t *testing.T) {
	var l stringList
	_ = l.Set("a")
	_ = l.Set("b")
	if l.String() != "a,b" {
		t.Errorf("String = %q", l.String())
	}
}

func TestLoadDatabase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ru_RU.txt"), []byte("улица Ленина\nМКАД\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Corpus.DataDir = dir
	db, err := loadDatabase(cfg)
	if err != nil {
		t.Fatalf("loadDatabase: %v", err)
	}
	if db.Len() != 2 || !db.CheckExactMatch("МКАД") {
		t.Errorf("unexpected database: %+v", db.Stats())
	}

	cfg.Matcher.Locale = "xx_XX"
	if _, err := loadDatabase(cfg); err == nil {
		t.Error("expected an error for an unknown locale")
	}
}

func TestProcessInput(t *testing.T) {
	dir := t.TempDir()
	osmFile := filepath.Join(dir, "extract.osm")
	txtFile := filepath.Join(dir, "names.txt")
	os.WriteFile(osmFile, []byte(`<osm><way id="1"><tag k="highway" v="residential"/><tag k="name" v="ул. Ленина"/></way></osm>`), 0o644)
	os.WriteFile(txtFile, []byte("улица Ленина\nМагазин\n"), 0o644)

	loc, _ := locale.Get("ru_RU")
	db := database.New(loc)
	db.Add("улица Ленина")

	agg := aggregator.New(db, 0, 1)
	ex := osm.NewExtractor(nil, nil)
	loader := dictionary.NewLoader()
	for _, f := range []string{osmFile, txtFile} {
		if err := processInput(f, agg, ex, loader); err != nil {
			t.Fatalf("processInput(%s): %v", f, err)
		}
	}

	s := agg.Stats()
	if s.Unique.All != 3 || s.Unique.Of(aggregator.CanonicalForm) != 1 ||
		s.Unique.Of(aggregator.ExactMatch) != 1 || s.Unique.Of(aggregator.NonName) != 1 {
		t.Errorf("stats = %+v", s.Unique)
	}

	if err := processInput(filepath.Join(dir, "missing.osm"), agg, ex, loader); err == nil {
		t.Error("expected an error for a missing file")
	}
}
