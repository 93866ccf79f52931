/*
Package config manages the TOML config for streetmangler tools.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/streetmangler/internal/utils"
	"github.com/bastiangx/streetmangler/pkg/osm"
	"github.com/charmbracelet/log"
)

// FileName is the config file looked up in the config directory.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Matcher MatcherConfig `toml:"matcher"`
	Corpus  CorpusConfig  `toml:"corpus"`
	OSM     OSMConfig     `toml:"osm"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// MatcherConfig selects the locale and the spelling tolerance.
type MatcherConfig struct {
	Locale      string   `toml:"locale"`
	Distance    int      `toml:"distance"`
	LocaleFiles []string `toml:"locale_files"`
}

// CorpusConfig lists the name lists loaded into the database.
type CorpusConfig struct {
	DataDir string   `toml:"data_dir"`
	Files   []string `toml:"files"`
}

// OSMConfig holds the tags names are extracted from.
type OSMConfig struct {
	AddrTags []string `toml:"addr_tags"`
	NameTags []string `toml:"name_tags"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxNameLength   int `toml:"max_name_length"`
	CompletionLimit int `toml:"completion_limit"`
	MaxLimit        int `toml:"max_limit"`
}

// CliConfig holds interactive checker and report options.
type CliConfig struct {
	Prompt     string `toml:"prompt"`
	ShowTiming bool   `toml:"show_timing"`
	DumpDir    string `toml:"dump_dir"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Matcher: MatcherConfig{
			Locale:      "ru_RU",
			Distance:    1,
			LocaleFiles: []string{},
		},
		Corpus: CorpusConfig{
			DataDir: "data",
			Files:   []string{},
		},
		OSM: OSMConfig{
			AddrTags: append([]string(nil), osm.DefaultAddrTags...),
			NameTags: append([]string(nil), osm.DefaultNameTags...),
		},
		Server: ServerConfig{
			MaxNameLength:   256,
			CompletionLimit: 24,
			MaxLimit:        64,
		},
		CLI: CliConfig{
			Prompt:     "> ",
			ShowTiming: true,
			DumpDir:    ".",
		},
	}
}

// CorpusFiles returns the configured corpus files resolved against dataDir,
// or <dataDir>/<locale>.txt when none are configured.
func (c *Config) CorpusFiles(dataDir string) []string {
	if len(c.Corpus.Files) == 0 {
		return []string{filepath.Join(dataDir, c.Matcher.Locale+".txt")}
	}
	files := make([]string, len(c.Corpus.Files))
	for i, f := range c.Corpus.Files {
		if filepath.IsAbs(f) {
			files[i] = f
		} else {
			files[i] = filepath.Join(dataDir, f)
		}
	}
	return files
}

// sanitize replaces out of range values with defaults.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.Matcher.Locale == "" {
		c.Matcher.Locale = def.Matcher.Locale
	}
	if c.Matcher.Distance < 0 {
		log.Warnf("Negative spelling distance %d, using 0", c.Matcher.Distance)
		c.Matcher.Distance = 0
	}
	if c.Server.MaxNameLength <= 0 {
		c.Server.MaxNameLength = def.Server.MaxNameLength
	}
	if c.Server.MaxLimit <= 0 {
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.CompletionLimit <= 0 || c.Server.CompletionLimit > c.Server.MaxLimit {
		c.Server.CompletionLimit = min(def.Server.CompletionLimit, c.Server.MaxLimit)
	}
	if c.CLI.DumpDir == "" {
		c.CLI.DumpDir = def.CLI.DumpDir
	}
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/streetmangler/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that does not decode into
// Config is read section by section, keeping every value of the right type.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "matcher"); ok {
		extractMatcherConfig(section, &config.Matcher)
	}
	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.ExtractSection(tempConfig, "osm"); ok {
		extractOSMConfig(section, &config.OSM)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.sanitize()
	return config, nil
}

func extractMatcherConfig(data map[string]any, m *MatcherConfig) {
	if val, ok := utils.ExtractString(data, "locale"); ok {
		m.Locale = val
	}
	if val, ok := utils.ExtractInt64(data, "distance"); ok {
		m.Distance = val
	}
	if val, ok := utils.ExtractStringSlice(data, "locale_files"); ok {
		m.LocaleFiles = val
	}
}

func extractCorpusConfig(data map[string]any, c *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		c.DataDir = val
	}
	if val, ok := utils.ExtractStringSlice(data, "files"); ok {
		c.Files = val
	}
}

func extractOSMConfig(data map[string]any, o *OSMConfig) {
	if val, ok := utils.ExtractStringSlice(data, "addr_tags"); ok {
		o.AddrTags = val
	}
	if val, ok := utils.ExtractStringSlice(data, "name_tags"); ok {
		o.NameTags = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_name_length"); ok {
		server.MaxNameLength = val
	}
	if val, ok := utils.ExtractInt64(data, "completion_limit"); ok {
		server.CompletionLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "prompt"); ok {
		cli.Prompt = val
	}
	if val, ok := utils.ExtractBool(data, "show_timing"); ok {
		cli.ShowTiming = val
	}
	if val, ok := utils.ExtractString(data, "dump_dir"); ok {
		cli.DumpDir = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes matcher values and saves the file.
func (c *Config) Update(configPath string, localeName *string, distance *int) error {
	if localeName != nil {
		c.Matcher.Locale = *localeName
	}
	if distance != nil {
		c.Matcher.Distance = *distance
	}
	c.sanitize()
	return SaveConfig(c, configPath)
}
