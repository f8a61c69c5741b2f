package main

import (
	"fmt"

	"github.com/elee1766/streamchat/src/config"
)

// loadConfig loads files and environment, then applies command line flags.
func (cli *CLI) loadConfig() (*config.Manager, error) {
	paths := config.GetConfigPaths()
	if cli.ConfigFile != "" {
		paths.ProjectConfig = cli.ConfigFile
	}

	mgr, err := config.NewManagerWithPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if err := mgr.Apply(cli.overrides()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return mgr, nil
}

func (cli *CLI) overrides() config.Overrides {
	return config.Overrides{
		BaseURL:       cli.BaseURL,
		Transport:     cli.Transport,
		HeaderTimeout: cli.HeaderTimeout,
		RenderFormat:  cli.Format,
		RenderStyle:   cli.Style,
		StoreDriver:   cli.Store,
		LogLevel:      cli.LogLevel,
	}
}
