package config

import (
	"path/filepath"
)

// Config represents the complete docsnip configuration.
// It can be loaded from docsnip.yml with environment variable overrides.
type Config struct {
	DocsDir           string            `yaml:"docs_dir" mapstructure:"docs_dir"`                     // documentation sources
	SiteDir           string            `yaml:"site_dir" mapstructure:"site_dir"`                     // rendered output
	DependentSections map[string]string `yaml:"dependent_sections" mapstructure:"dependent_sections"` // repo alias -> path
	Paths             PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Snippets          SnippetsConfig    `yaml:"snippets" mapstructure:"snippets"`
	Include           IncludeConfig     `yaml:"include" mapstructure:"include"`

	// ProjectDir is the directory the configuration was loaded for. Relative
	// paths in the configuration resolve against it.
	ProjectDir string `yaml:"-" mapstructure:"-"`
}

// PathsConfig defines which documents to render and which repository files to skip.
type PathsConfig struct {
	Docs   []string `yaml:"docs" mapstructure:"docs"`     // glob patterns for rendered documents, relative to docs_dir
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns skipped inside snippet repositories
}

// SnippetsConfig controls how snippet repositories are searched.
type SnippetsConfig struct {
	RespectGitignore bool `yaml:"respect_gitignore" mapstructure:"respect_gitignore"`
	MaxFileSizeKB    int  `yaml:"max_file_size_kb" mapstructure:"max_file_size_kb"` // larger files are not searched; zero means no limit
}

// IncludeConfig controls include directive resolution.
type IncludeConfig struct {
	PageRelative bool `yaml:"page_relative" mapstructure:"page_relative"` // fall back to the including page's directory
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		DocsDir:           "docs",
		SiteDir:           "site",
		DependentSections: map[string]string{},
		Paths: PathsConfig{
			Docs: []string{
				"**/*.md",
			},
			Ignore: []string{
				".git/**",
				"node_modules/**",
				"vendor/**",
			},
		},
		Snippets: SnippetsConfig{
			RespectGitignore: true,
			MaxFileSizeKB:    0,
		},
		Include: IncludeConfig{
			PageRelative: false,
		},
	}
}

// DocsPath returns the absolute documentation directory.
func (c *Config) DocsPath() string {
	return c.abs(c.DocsDir)
}

// SitePath returns the absolute output directory.
func (c *Config) SitePath() string {
	return c.abs(c.SiteDir)
}

// MaxFileSize returns the snippet file size limit in bytes, zero for none.
func (c *Config) MaxFileSize() int64 {
	return int64(c.Snippets.MaxFileSizeKB) * 1024
}

func (c *Config) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.ProjectDir, path)
}
