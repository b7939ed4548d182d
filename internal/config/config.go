package config

import (
	"path/filepath"
	"time"
)

type Config struct {
	// Discovery
	WatchPaths     []string `yaml:"watch_paths"`
	Repos          []string `yaml:"repos"` // explicit work-tree roots
	MaxDepth       int      `yaml:"max_depth"`
	ShowHidden     bool     `yaml:"show_hidden"`
	IgnorePatterns []string `yaml:"ignore_patterns"`

	// Probing
	CountUntracked bool          `yaml:"count_untracked"` // untracked files count as dirty
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	Concurrency    int           `yaml:"concurrency"`

	// Scheduling
	PollInterval time.Duration `yaml:"poll_interval"` // background tick
	StaleAfter   time.Duration `yaml:"stale_after"`   // record age before re-probe

	// External tools
	EditorCommand    string `yaml:"editor_command"`
	GitClientCommand string `yaml:"git_client_command"`

	// Logging
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

func NewConfig() *Config {
	return &Config{
		WatchPaths: []string{},
		Repos:      []string{},
		MaxDepth:   1,
		IgnorePatterns: []string{
			"**/node_modules/**",
			"**/vendor/**",
			"**/.cache/**",
			"**/__pycache__/**",
			"**/.venv/**",
			"**/target/**",
			"**/build/**",
			"**/dist/**",
		},
		CountUntracked:   true,
		ProbeTimeout:     5 * time.Second,
		FetchTimeout:     30 * time.Second,
		Concurrency:      8,
		PollInterval:     5 * time.Second,
		StaleAfter:       5 * time.Minute,
		GitClientCommand: "lazygit",
		LogLevel:         "info",
	}
}

// Configured reports whether there is anything to track at all. An empty
// configuration is a distinct state from a scan that found nothing.
func (c *Config) Configured() bool {
	return len(c.WatchPaths) > 0 || len(c.Repos) > 0
}

func (c *Config) ShouldIgnore(path string) bool {
	for _, pattern := range c.IgnorePatterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		if containsDoublestar(pattern) && matchDoublestar(pattern, path) {
			return true
		}
	}
	return false
}

func containsDoublestar(pattern string) bool {
	for i := 0; i < len(pattern)-1; i++ {
		if pattern[i] == '*' && pattern[i+1] == '*' {
			return true
		}
	}
	return false
}

func matchDoublestar(pattern, path string) bool {
	// "**/node_modules/**" matches any path whose final or parent
	// component is the middle part
	if len(pattern) < 5 {
		return false
	}
	middle := pattern[3 : len(pattern)-3]
	return filepath.Base(filepath.Dir(path)) == middle ||
		filepath.Base(path) == middle
}
