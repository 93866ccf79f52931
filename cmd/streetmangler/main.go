// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the streetmangler tool: it loads a database of known
street names and checks names from OpenStreetMap extracts or plain lists
against it.

Every input name is classified as an exact match, a known name in another
form (canonical form), a misspelled known name, a known name with a wrong or
missing status part, an unknown street or something that is not a street
name at all. A statistics table is printed to stderr at the end.

# Usage

Check the streets of an extract against the default ru_RU database:

	streetmangler moscow.osm

Use an English database, count every occurrence and dump the name lists:

	streetmangler -l en_GB -f data/gb.txt -s -dump -counts london.osm extra.txt

Read an OSM document or a name list from stdin:

	bzcat extract.osm.bz2 | streetmangler -

Run the interactive checker, or the msgpack IPC server:

	streetmangler -c
	streetmangler -server

# Inputs

Files ending in .osm or .xml are parsed as OSM XML, .txt and .lst files as
name lists. Other files, and stdin, are sniffed: XML content is treated as
OSM data, anything else as a name list.

From OSM data the values of address tags (addr:street and variants) of every
node and way are taken, plus the name tags of highway ways. -a and -n replace
the tag sets, -A and -N drop the defaults.

# Configuration

Defaults come from config.toml in the user config directory, created on
first run. -config selects another file. Flags override config values.

	[matcher]
	locale = "ru_RU"
	distance = 1
	locale_files = []

	[corpus]
	data_dir = "data"
	files = []

# Command Line Flags

	-d       debug logging
	-c       interactive checker
	-server  msgpack IPC server on stdin/stdout
	-s       per-street statistics (classifies repeated names again)
	-dump    write dump.*.txt files
	-counts  include dump.counts.*.txt files
	-l       locale
	-p       spelling distance
	-f       corpus file, may be repeated (default <data>/<locale>.txt)
	-a, -n   address / name tag, may be repeated
	-A, -N   do not use the default address / name tags
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/streetmangler/internal/cli"
	"github.com/bastiangx/streetmangler/internal/logger"
	"github.com/bastiangx/streetmangler/internal/utils"
	"github.com/bastiangx/streetmangler/pkg/aggregator"
	"github.com/bastiangx/streetmangler/pkg/config"
	"github.com/bastiangx/streetmangler/pkg/database"
	"github.com/bastiangx/streetmangler/pkg/dictionary"
	"github.com/bastiangx/streetmangler/pkg/locale"
	"github.com/bastiangx/streetmangler/pkg/osm"
	"github.com/bastiangx/streetmangler/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "streetmangler"
	gh      = "https://github.com/bastiangx/streetmangler"
)

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

type options struct {
	debug, cliMode, serverMode    bool
	perStreet, dump, counts       bool
	noAddrDefaults, noNameDefault bool
	localeName                    string
	distance                      int
	dataDir, configPath, dumpDir  string
	corpus, addrTags, nameTags    stringList
	set                           map[string]bool
}

func parseFlags() *options {
	o := &options{}
	def := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	flag.BoolVar(&o.debug, "d", false, "Toggle debug mode")
	flag.BoolVar(&o.cliMode, "c", false, "Run the interactive checker")
	flag.BoolVar(&o.serverMode, "server", false, "Run the msgpack IPC server on stdin/stdout")
	flag.BoolVar(&o.perStreet, "s", false, "Display per-street statistics (takes extra time)")
	flag.BoolVar(&o.dump, "dump", false, "Dump street lists into dump.*.txt")
	flag.BoolVar(&o.counts, "counts", false, "Include dumps with street name counts")
	flag.StringVar(&o.localeName, "l", def.Matcher.Locale, "Locale")
	flag.IntVar(&o.distance, "p", def.Matcher.Distance, "Spelling check distance")
	flag.StringVar(&o.dataDir, "data", def.Corpus.DataDir, "Directory containing the corpus files")
	flag.StringVar(&o.configPath, "config", "", "Path to config.toml")
	flag.StringVar(&o.dumpDir, "dumpdir", def.CLI.DumpDir, "Directory dump files are written to")
	flag.Var(&o.corpus, "f", "Street names database file (may be repeated)")
	flag.Var(&o.addrTags, "a", "Address tag instead of the default set (may be repeated)")
	flag.Var(&o.nameTags, "n", "Name tag instead of the default set (may be repeated)")
	flag.BoolVar(&o.noAddrDefaults, "A", false, "Don't use the default address tags")
	flag.BoolVar(&o.noNameDefault, "N", false, "Don't use the default name tags")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] file.osm|file.txt|- ...\n", AppName)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	o.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ streetmangler ] Street name normalizer and fuzzy matcher")
	logger.Print("", "version", Version)
	logger.Print("", "locales", strings.Join(locale.Default().Names(), ", "))
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// applyFlags lets explicitly set flags win over the config file.
func applyFlags(cfg *config.Config, o *options) {
	if o.set["l"] {
		cfg.Matcher.Locale = o.localeName
	}
	if o.set["p"] {
		cfg.Matcher.Distance = o.distance
	}
	if o.set["data"] {
		cfg.Corpus.DataDir = o.dataDir
	}
	if o.set["dumpdir"] {
		cfg.CLI.DumpDir = o.dumpDir
	}
	if len(o.corpus) > 0 {
		cfg.Corpus.Files = o.corpus
	}

	if len(o.addrTags) > 0 {
		cfg.OSM.AddrTags = o.addrTags
	} else if o.noAddrDefaults {
		cfg.OSM.AddrTags = []string{}
	}
	if len(o.nameTags) > 0 {
		cfg.OSM.NameTags = o.nameTags
	} else if o.noNameDefault {
		cfg.OSM.NameTags = []string{}
	}
}

// main only manages the flow; loading and checking live in the packages.
func main() {
	sigHandler()
	o := parseFlags()
	logger.Setup(o.debug)

	if !o.cliMode && !o.serverMode && flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, configPath, err := config.LoadConfigWithPriority(o.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))
	applyFlags(cfg, o)

	db, err := loadDatabase(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	switch {
	case o.cliMode:
		log.SetReportTimestamp(false)
		if err := cli.NewInputHandler(db, cfg).Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	case o.serverMode:
		log.Debug("spawning IPC")
		srv := server.NewServer(db, cfg.Server, cfg.Matcher.Distance)
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	default:
		if err := processInputs(db, cfg, o, flag.Args()); err != nil {
			log.Fatalf("%v", err)
		}
	}
}

// loadDatabase registers extra locale tables, then loads the corpus.
func loadDatabase(cfg *config.Config) (*database.Database, error) {
	registry := locale.Default()
	for _, f := range cfg.Matcher.LocaleFiles {
		if err := registry.RegisterFile(f); err != nil {
			return nil, fmt.Errorf("cannot load locale table: %w", err)
		}
	}
	loc, err := registry.Locale(cfg.Matcher.Locale)
	if err != nil {
		return nil, err
	}

	dataDir := cfg.Corpus.DataDir
	if pr, err := utils.NewPathResolver(); err == nil {
		dataDir = pr.GetDataDir(dataDir)
	}

	db := database.New(loc)
	loader := dictionary.NewLoader()
	for _, f := range cfg.CorpusFiles(dataDir) {
		fmt.Fprintf(os.Stderr, "Loading dictionary %q...\n", f)
		if _, err := loader.LoadInto(db, f); err != nil {
			return nil, err
		}
	}

	st := db.Stats()
	log.Debug("Database loaded", "locale", loc.Name(), "entries", st.Entries, "names", st.Names,
		"trie_nodes", st.TrieNodes)
	if st.Entries == 0 {
		log.Warn("Street names database is empty, every name will be reported as unknown")
	}
	return db, nil
}

// processInputs feeds every input through the aggregator and reports.
func processInputs(db *database.Database, cfg *config.Config, o *options, inputs []string) error {
	var flags aggregator.Flags
	if o.perStreet {
		flags |= aggregator.PerStreetStats
	}
	if o.counts {
		flags |= aggregator.CountNames
	}
	agg := aggregator.New(db, flags, cfg.Matcher.Distance)
	extractor := osm.NewExtractor(cfg.OSM.AddrTags, cfg.OSM.NameTags)
	loader := dictionary.NewLoader()

	for _, input := range inputs {
		if err := processInput(input, agg, extractor, loader); err != nil {
			return err
		}
	}

	if o.dump {
		fmt.Fprintln(os.Stderr, "Dumping data...")
		if err := agg.DumpData(cfg.CLI.DumpDir); err != nil {
			return err
		}
	}
	return agg.WriteStats(os.Stderr)
}

func processInput(input string, agg *aggregator.Aggregator, extractor *osm.Extractor, loader *dictionary.Loader) error {
	if input == "-" {
		br := bufio.NewReader(os.Stdin)
		head, _ := br.Peek(512)
		if dictionary.SniffFormat(head) == dictionary.FormatOSM {
			fmt.Fprintln(os.Stderr, "Processing stdin as OSM data...")
			return extractor.Extract(br, agg.ProcessName)
		}
		fmt.Fprintln(os.Stderr, "Processing stdin as strings list...")
		return loader.LoadReader(br, ".", agg.ProcessName)
	}

	format, err := dictionary.DetectFileFormat(input)
	if err != nil {
		return err
	}
	switch format {
	case dictionary.FormatOSM:
		fmt.Fprintf(os.Stderr, "Processing file %q as OSM data...\n", input)
		return extractor.ExtractFile(input, agg.ProcessName)
	case dictionary.FormatText:
		fmt.Fprintf(os.Stderr, "Processing file %q as strings list...\n", input)
		return loader.LoadFile(input, agg.ProcessName)
	default:
		return fmt.Errorf("%s: unknown format", input)
	}
}
