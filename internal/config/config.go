// Package config parses haul.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultAccentColor is the default TUI accent color (cyan).
const DefaultAccentColor = "#36C5F0"

// hexColorRe matches a 6-digit hex color string like "#36C5F0".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level haul.toml configuration.
type Config struct {
	Project       ProjectConfig       `toml:"project"`
	Server        ServerConfig        `toml:"server"`
	Bundle        BundleConfig        `toml:"bundle"`
	Platforms     []PlatformConfig    `toml:"platform"`
	Watch         WatchConfig         `toml:"watch"`
	TUI           TUIConfig           `toml:"tui"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// ProjectConfig identifies the project.
type ProjectConfig struct {
	Name string `toml:"name"`
}

// ServerConfig controls the dev HTTP server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// BundleConfig controls where compiled bundles are read from.
type BundleConfig struct {
	OutputDir string `toml:"output_dir"`
}

// PlatformConfig describes one build target and the bundler worker command
// that compiles it. The command is field-split, with the platform id
// appended as the last argument.
type PlatformConfig struct {
	ID      string `toml:"id"`
	Command string `toml:"command"`
}

// WatchConfig controls the source file watcher.
type WatchConfig struct {
	Roots      []string `toml:"roots"`
	DebounceMS int      `toml:"debounce_ms"`
}

// TUIConfig controls the terminal dashboard appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL          string `toml:"url"`
	OnFailure    bool   `toml:"on_failure"`
	OnBundleErrs bool   `toml:"on_bundle_errors"`
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in [0, 65535]"))
	}
	if c.Bundle.OutputDir == "" {
		errs = append(errs, fmt.Errorf("bundle.output_dir must not be empty"))
	}

	seen := map[string]bool{}
	for i, p := range c.Platforms {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("platform[%d].id must not be empty", i))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("platform %q listed more than once", p.ID))
		}
		seen[p.ID] = true
		if strings.TrimSpace(p.Command) == "" {
			errs = append(errs, fmt.Errorf("platform %q has no command", p.ID))
		}
	}

	if c.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce_ms must be >= 0"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#36C5F0\")"))
	}

	if c.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(c.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with sensible defaults for a fresh project.
func Defaults() Config {
	return Config{
		Project: ProjectConfig{Name: ""},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8081,
		},
		Bundle: BundleConfig{
			OutputDir: "dist",
		},
		Watch: WatchConfig{
			Roots:      []string{"src"},
			DebounceMS: 250,
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
		},
		Notifications: NotificationsConfig{
			URL:          "",
			OnFailure:    true,
			OnBundleErrs: false,
		},
	}
}

// Load reads haul.toml from the given path. If path is empty, it walks up
// from the current working directory looking for haul.toml. Returns an error
// if the file contains unknown keys (likely typos).
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	if cfg.Project.Name == "" {
		cfg.Project.Name = filepath.Base(filepath.Dir(path))
	}

	return &cfg, nil
}

// findConfig walks up from the current directory looking for haul.toml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, "haul.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config: haul.toml not found (searched up from %s)", dir)
		}
		dir = parent
	}
}

// InitFile writes a default haul.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, "haul.toml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: haul.toml already exists at %s", path)
	}

	content := `# haul.toml — haul project configuration
# Place this file in the root of your project.

[project]
name = ""

[server]
host = "127.0.0.1"
port = 8081

[bundle]
output_dir = "dist"

[[platform]]
id = "ios"
command = "node node_modules/.bin/haul-worker"

[[platform]]
id = "android"
command = "node node_modules/.bin/haul-worker"

[watch]
roots = ["src"]
debounce_ms = 250

[tui]
accent_color = "#36C5F0"  # hex color for the dashboard header

[notifications]
url = ""                 # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_failure = true        # notify when a build aborts
on_bundle_errors = false # notify when a build finishes with module errors
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
