package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// keyDelimiter separates nested keys. Repository aliases may contain dots,
// so the viper default cannot be used.
const keyDelimiter = "::"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → .env → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given project directory.
// configFile, when non-empty, replaces the docsnip.yml lookup.
func NewLoader(rootDir, configFile string) Loader {
	return &loader{
		rootDir:    rootDir,
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (DOCSNIP_*), including those from <root>/.env
// 2. Config file (docsnip.yml or docsnip.yaml, or the explicit file)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	// .env never overrides variables that are already set
	if err := godotenv.Load(filepath.Join(l.rootDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("docsnip")
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	// DOCSNIP_PATHS_DOCS, DOCSNIP_SNIPPETS_MAX_FILE_SIZE_KB, ...
	v.SetEnvPrefix("DOCSNIP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))

	v.BindEnv("docs_dir")
	v.BindEnv("site_dir")
	v.BindEnv(key("paths", "docs"))
	v.BindEnv(key("paths", "ignore"))
	v.BindEnv(key("snippets", "respect_gitignore"))
	v.BindEnv(key("snippets", "max_file_size_kb"))
	v.BindEnv(key("include", "page_relative"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.DependentSections == nil {
		cfg.DependentSections = map[string]string{}
	}

	root, err := filepath.Abs(l.rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	cfg.ProjectDir = root

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func key(parts ...string) string {
	return strings.Join(parts, keyDelimiter)
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("docs_dir", defaults.DocsDir)
	v.SetDefault("site_dir", defaults.SiteDir)

	v.SetDefault(key("paths", "docs"), defaults.Paths.Docs)
	v.SetDefault(key("paths", "ignore"), defaults.Paths.Ignore)

	v.SetDefault(key("snippets", "respect_gitignore"), defaults.Snippets.RespectGitignore)
	v.SetDefault(key("snippets", "max_file_size_kb"), defaults.Snippets.MaxFileSizeKB)

	v.SetDefault(key("include", "page_relative"), defaults.Include.PageRelative)
}
