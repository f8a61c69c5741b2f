package config

import (
	"fmt"
	"time"
)

// Config represents the complete configuration for streamchat
type Config struct {
	// Version of the configuration format
	Version string `json:"version" toml:"version"`

	// API configuration for the chat backend
	API APIConfig `json:"api" toml:"api"`

	// Chat behavior
	Chat ChatConfig `json:"chat" toml:"chat"`

	// Render configuration
	Render RenderConfig `json:"render" toml:"render"`

	// Store configuration
	Store StoreConfig `json:"store" toml:"store"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" toml:"logging"`
}

// APIConfig holds backend connection settings
type APIConfig struct {
	// BaseURL of the chat backend
	BaseURL string `json:"base_url,omitempty" toml:"base_url,omitempty" validate:"required,url"`

	// Transport is "sse" or "websocket"
	Transport string `json:"transport,omitempty" toml:"transport,omitempty" validate:"transport"`

	// Headers for additional request headers
	Headers map[string]string `json:"headers,omitempty" toml:"headers,omitempty"`

	// HeaderTimeout bounds the wait for response headers. Streams
	// themselves never time out.
	HeaderTimeout Duration `json:"header_timeout,omitempty" toml:"header_timeout,omitempty"`
}

// ChatConfig holds conversation settings
type ChatConfig struct {
	DefaultTitle      string   `json:"default_title,omitempty" toml:"default_title,omitempty"`
	TitleLength       int      `json:"title_length,omitempty" toml:"title_length,omitempty" validate:"min=0"`
	FallbackErrorText string   `json:"fallback_error_text,omitempty" toml:"fallback_error_text,omitempty"`
	Shortcuts         []string `json:"shortcuts,omitempty" toml:"shortcuts,omitempty"`
}

// RenderConfig holds output rendering settings
type RenderConfig struct {
	// Format is "terminal", "html" or "plain"
	Format string `json:"format,omitempty" toml:"format,omitempty" validate:"render_format"`

	// Style is a glamour style name or "auto"
	Style string `json:"style,omitempty" toml:"style,omitempty"`

	WordWrap int `json:"word_wrap,omitempty" toml:"word_wrap,omitempty" validate:"min=0"`
}

// StoreConfig selects the conversation store
type StoreConfig struct {
	// Driver is "memory" or "sqlite"
	Driver string `json:"driver,omitempty" toml:"driver,omitempty" validate:"store_driver"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" toml:"level,omitempty" validate:"log_level"`

	// Format is the output format (text, json)
	Format string `json:"format,omitempty" toml:"format,omitempty" validate:"log_format"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// ConfigPrecedence defines the order of configuration loading
type ConfigPrecedence struct {
	// UserConfig path
	UserConfig string

	// ProjectConfig path
	ProjectConfig string

	// EnvFile is a dotenv file loaded before reading the environment
	EnvFile string

	// EnvironmentPrefix for env var overrides
	EnvironmentPrefix string
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e ValidationError) Error() string {
	return e.Message
}

// ConfigSource indicates where a configuration value came from
type ConfigSource string

const (
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
)
