// Package config handles global configuration and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/robert-haas/mevis/internal/expand"
	"github.com/robert-haas/mevis/internal/layout"
	"github.com/robert-haas/mevis/internal/viz"
)

// Config holds defaults for the command line. Empty fields fall back to
// the built-in defaults of each package.
type Config struct {
	Backend    string `yaml:"backend,omitempty"`     // cytoscape or vis
	Layout     string `yaml:"layout,omitempty"`      // layout method computed before rendering
	HTMLLayout string `yaml:"html_layout,omitempty"` // backend layout for graphs without coordinates
	FilterMode string `yaml:"filter_mode,omitempty"` // include or exclude
	Annotated  *bool  `yaml:"annotated,omitempty"`
	Directed   *bool  `yaml:"directed,omitempty"`
	ScriptURL  string `yaml:"script_url,omitempty"` // overrides the backend CDN url
	IndexPath  string `yaml:"index_path,omitempty"` // default SQLite index for `mevis index`
}

// Environment variables that override config values.
const (
	EnvBackend   = "MEVIS_BACKEND"
	EnvLayout    = "MEVIS_LAYOUT"
	EnvScriptURL = "MEVIS_SCRIPT_URL"
)

// IsAnnotated reports whether graphs should carry annotations. Defaults to true.
func (c *Config) IsAnnotated() bool {
	return c.Annotated == nil || *c.Annotated
}

// IsDirected reports whether graphs should be directed. Defaults to true.
func (c *Config) IsDirected() bool {
	return c.Directed == nil || *c.Directed
}

// Validate checks every configured value against the accepted names.
func (c *Config) Validate() error {
	if c.Backend != "" {
		if _, err := viz.ParseBackend(c.Backend); err != nil {
			return fmt.Errorf("invalid backend: %w", err)
		}
	}
	if c.Layout != "" {
		if _, err := layout.ParseMethod(c.Layout); err != nil {
			return fmt.Errorf("invalid layout: %w", err)
		}
	}
	if c.HTMLLayout != "" && !validHTMLLayout(c.HTMLLayout) {
		return fmt.Errorf("invalid html_layout: %s (valid: %v)", c.HTMLLayout, viz.ValidLayouts)
	}
	if c.FilterMode != "" {
		if _, err := expand.ParseMode(c.FilterMode); err != nil {
			return fmt.Errorf("invalid filter_mode: %w", err)
		}
	}
	return nil
}

func validHTMLLayout(s string) bool {
	for _, l := range viz.ValidLayouts {
		if s == l {
			return true
		}
	}
	return false
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
