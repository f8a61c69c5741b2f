package config

import "time"

// DefaultConfig returns a default configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:       "http://localhost:5000",
			Transport:     "sse",
			HeaderTimeout: Duration{30 * time.Second},
		},
		Chat: ChatConfig{
			DefaultTitle:      "New Chat",
			TitleLength:       10,
			FallbackErrorText: "An error occurred: connection interrupted",
			Shortcuts: []string{
				"/story",
				"Look around",
				"Tell me about ",
			},
		},
		Render: RenderConfig{
			Format:   "terminal",
			Style:    "auto",
			WordWrap: 80,
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
