package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "streamchat"

// GetDefaultStatePath returns the directory for runtime state such as logs
// and input history
func GetDefaultStatePath() string {
	return filepath.Join(xdg.StateHome, appName)
}

// GetDefaultLogPath returns the directory log files are written to
func GetDefaultLogPath() string {
	return filepath.Join(GetDefaultStatePath(), "logs")
}

// GetDefaultHistoryPath returns the REPL input history file
func GetDefaultHistoryPath() string {
	return filepath.Join(GetDefaultStatePath(), "history")
}

// GetConfigPaths returns the configuration file paths to check
func GetConfigPaths() ConfigPrecedence {
	return ConfigPrecedence{
		UserConfig:        filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		ProjectConfig:     filepath.Join("."+appName, "config.toml"),
		EnvFile:           ".env",
		EnvironmentPrefix: "STREAMCHAT",
	}
}
