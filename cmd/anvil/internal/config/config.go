// Package config loads the optional anvil.yaml file of the anvil command.
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-anvil/anvil/pkg/errors"
)

// FileName is the configuration file looked up in the project root.
const FileName = "anvil.yaml"

// Config represents the optional anvil.yaml configuration.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Log    LogConfig    `yaml:"log"`
	Render RenderConfig `yaml:"render"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// LogConfig controls the command's logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// RenderConfig controls render output.
type RenderConfig struct {
	// Debug logs engine events and includes stack traces in error reports.
	Debug bool `yaml:"debug,omitempty"`
	// Color is one of auto, always or never.
	Color string `yaml:"color,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	LogLevel   slog.Level
	LogFormat  string
	Debug      bool
	Color      string
}

// LoadOptional reads anvil.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, configError(fmt.Errorf("failed to read %s: %w", FileName, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, configError(fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	return &cfg, nil
}

// Resolve loads anvil.yaml (if present) and resolves defaults. A go.mod in
// dir, when there is one, names the application.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	switch format {
	case "":
		format = "text"
	case "text", "json":
	default:
		return nil, configError(fmt.Errorf("log.format %q must be text or json", cfg.Log.Format))
	}

	color := strings.ToLower(strings.TrimSpace(cfg.Render.Color))
	switch color {
	case "":
		color = "auto"
	case "auto", "always", "never":
	default:
		return nil, configError(fmt.Errorf("render.color %q must be auto, always or never", cfg.Render.Color))
	}

	if cfg.Render.Debug && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		LogLevel:   level,
		LogFormat:  format,
		Debug:      cfg.Render.Debug,
		Color:      color,
	}, nil
}

// ParseLevel converts a level name to a slog level. The empty string is
// info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, configError(fmt.Errorf("unknown log level %q", s))
}

// NewLogger builds the command's logger writing to w.
func NewLogger(r *Resolved, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: r.LogLevel, AddSource: r.Debug}
	var h slog.Handler
	if r.LogFormat == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("app", r.AppName)
}

// FindProjectRoot walks up from dir to the nearest directory holding
// anvil.yaml or go.mod. It returns dir itself when neither is found.
func FindProjectRoot(dir string) string {
	start := dir
	for {
		for _, name := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", configError(fmt.Errorf("failed to read go.mod: %w", err))
	}
	return modfile.ModulePath(data), nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		if prefix, _, ok := module.SplitPathVersion(modulePath); ok {
			parts := strings.Split(prefix, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "anvil"
	}
	return base
}

func configError(err error) error {
	return &errors.AnvilError{Op: "config.Resolve", Kind: errors.KindConfig, Err: err}
}
