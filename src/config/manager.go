package config

import (
	"fmt"
	"time"
)

// Overrides are values set on the command line. Empty fields are ignored.
type Overrides struct {
	BaseURL       string
	Transport     string
	HeaderTimeout time.Duration
	RenderFormat  string
	RenderStyle   string
	StoreDriver   string
	LogLevel      string
}

// Manager handles configuration loading and access
type Manager struct {
	config *Config
	loader *Loader
}

// NewManager loads configuration from the default locations
func NewManager(opts ...LoaderOption) (*Manager, error) {
	return NewManagerWithPaths(GetConfigPaths(), opts...)
}

// NewManagerWithPaths loads configuration from explicit locations
func NewManagerWithPaths(paths ConfigPrecedence, opts ...LoaderOption) (*Manager, error) {
	loader := NewLoader(paths, opts...)
	config, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return &Manager{config: config, loader: loader}, nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// LoadedFiles returns the files the configuration was read from
func (m *Manager) LoadedFiles() []string {
	return m.loader.LoadedFiles()
}

// Apply applies command line overrides and re-validates
func (m *Manager) Apply(o Overrides) error {
	next := *m.config
	next.API.Headers = cloneMap(m.config.API.Headers)
	next.Chat.Shortcuts = append([]string(nil), m.config.Chat.Shortcuts...)

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&next.API.BaseURL, o.BaseURL)
	set(&next.API.Transport, o.Transport)
	set(&next.Render.Format, o.RenderFormat)
	set(&next.Render.Style, o.RenderStyle)
	set(&next.Store.Driver, o.StoreDriver)
	set(&next.Logging.Level, o.LogLevel)
	if o.HeaderTimeout != 0 {
		next.API.HeaderTimeout = Duration{o.HeaderTimeout}
	}

	if err := m.loader.validator.Validate(&next); err != nil {
		return fmt.Errorf("invalid command line option: %w", err)
	}
	m.config = &next
	return nil
}

// Export renders the current configuration as "toml" or "json"
func (m *Manager) Export(format string) ([]byte, error) {
	return Encode(m.config, format)
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
