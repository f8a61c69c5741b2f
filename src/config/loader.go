package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Loader handles loading and merging configurations from multiple sources
type Loader struct {
	precedence ConfigPrecedence
	validator  *Validator
	fs         afero.Fs
	lookupEnv  func(string) (string, bool)

	loaded []string
}

// LoaderOption customizes a Loader
type LoaderOption func(*Loader)

// WithFs reads configuration files from fs
func WithFs(fs afero.Fs) LoaderOption {
	return func(l *Loader) { l.fs = fs }
}

// WithEnv replaces the process environment lookup
func WithEnv(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) { l.lookupEnv = lookup }
}

// NewLoader creates a new configuration loader
func NewLoader(precedence ConfigPrecedence, opts ...LoaderOption) *Loader {
	l := &Loader{
		precedence: precedence,
		validator:  NewValidator(),
		fs:         afero.NewOsFs(),
		lookupEnv:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadedFiles returns the configuration files read by the last Load.
func (l *Loader) LoadedFiles() []string {
	return append([]string(nil), l.loaded...)
}

// Load loads configuration from all sources and merges them
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()
	l.loaded = nil

	sources := []struct {
		path   string
		source ConfigSource
	}{
		{l.precedence.UserConfig, SourceUser},
		{l.precedence.ProjectConfig, SourceProject},
	}

	for _, src := range sources {
		if src.path == "" {
			continue
		}

		path, err := l.loadFile(src.path, config)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load %s config from %s: %w", src.source, path, err)
		}
		l.loaded = append(l.loaded, path)
	}

	if l.precedence.EnvironmentPrefix != "" {
		if err := l.applyEnvironmentOverrides(config); err != nil {
			return nil, err
		}
	}

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFile decodes the file at path onto config. Keys missing from the file
// keep their current values. A path ending in .toml falls back to the .json
// sibling when it does not exist.
func (l *Loader) loadFile(path string, config *Config) (string, error) {
	data, err := afero.ReadFile(l.fs, path)
	if errors.Is(err, fs.ErrNotExist) && filepath.Ext(path) == ".toml" {
		path = strings.TrimSuffix(path, ".toml") + ".json"
		data, err = afero.ReadFile(l.fs, path)
	}
	if err != nil {
		return path, err
	}

	if err := Decode(path, data, config); err != nil {
		return path, err
	}
	return path, nil
}

// Decode parses JSON or TOML, chosen by file extension, onto config.
func Decode(path string, data []byte, config *Config) error {
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), config); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

// Encode writes config as "json" or "toml".
func Encode(config *Config, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return append(data, '\n'), nil
	case "toml", "":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

// SaveFile saves configuration to a file
func (l *Loader) SaveFile(config *Config, path string) error {
	if err := l.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	data, err := Encode(config, format)
	if err != nil {
		return err
	}

	if err := l.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := afero.WriteFile(l.fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// envLookup returns a lookup that prefers the process environment over the
// dotenv file.
func (l *Loader) envLookup() (func(string) (string, bool), error) {
	dotenv := map[string]string{}
	if l.precedence.EnvFile != "" {
		f, err := l.fs.Open(l.precedence.EnvFile)
		switch {
		case err == nil:
			dotenv, err = godotenv.Parse(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", l.precedence.EnvFile, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to open %s: %w", l.precedence.EnvFile, err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := l.lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// applyEnvironmentOverrides applies environment variable overrides to config
func (l *Loader) applyEnvironmentOverrides(config *Config) error {
	lookup, err := l.envLookup()
	if err != nil {
		return err
	}
	prefix := l.precedence.EnvironmentPrefix + "_"

	get := func(name string) (string, bool) {
		v, ok := lookup(prefix + name)
		return v, ok && v != ""
	}

	strs := map[string]*string{
		"BASE_URL":      &config.API.BaseURL,
		"TRANSPORT":     &config.API.Transport,
		"DEFAULT_TITLE": &config.Chat.DefaultTitle,
		"FALLBACK_TEXT": &config.Chat.FallbackErrorText,
		"RENDER_FORMAT": &config.Render.Format,
		"RENDER_STYLE":  &config.Render.Style,
		"STORE_DRIVER":  &config.Store.Driver,
		"LOG_LEVEL":     &config.Logging.Level,
		"LOG_FORMAT":    &config.Logging.Format,
	}
	for name, dst := range strs {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TITLE_LENGTH": &config.Chat.TitleLength,
		"WORD_WRAP":    &config.Render.WordWrap,
	}
	for name, dst := range ints {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", prefix, name, err)
			}
			*dst = n
		}
	}

	if v, ok := get("HEADER_TIMEOUT"); ok {
		if err := config.API.HeaderTimeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %sHEADER_TIMEOUT: %w", prefix, err)
		}
	}

	// A bearer token is the one header commonly kept out of config files.
	if v, ok := get("API_TOKEN"); ok {
		if config.API.Headers == nil {
			config.API.Headers = make(map[string]string)
		}
		config.API.Headers["Authorization"] = "Bearer " + v
	}

	return nil
}
