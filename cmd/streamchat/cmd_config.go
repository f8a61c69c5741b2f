package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/elee1766/streamchat/src/config"
)

// ConfigCmd groups configuration subcommands
type ConfigCmd struct {
	Show ConfigShowCmd `default:"1" cmd:"" help:"Print the effective configuration"`
	Path ConfigPathCmd `cmd:"" help:"List configuration and state locations"`
}

// ConfigShowCmd prints the merged configuration
type ConfigShowCmd struct {
	Output string `short:"o" enum:"toml,json" default:"toml" help:"Output format (toml, json)"`
}

func (c *ConfigShowCmd) Run(ctx *kong.Context, cli *CLI) error {
	mgr, err := cli.loadConfig()
	if err != nil {
		return err
	}
	data, err := mgr.Export(c.Output)
	if err != nil {
		return err
	}
	_, err = ctx.Stdout.Write(data)
	return err
}

// ConfigPathCmd lists where configuration is read from
type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(ctx *kong.Context, cli *CLI) error {
	mgr, err := cli.loadConfig()
	if err != nil {
		return err
	}
	loaded := mgr.LoadedFiles()

	paths := config.GetConfigPaths()
	if cli.ConfigFile != "" {
		paths.ProjectConfig = cli.ConfigFile
	}

	fmt.Fprintf(ctx.Stdout, "user:    %s\n", paths.UserConfig)
	fmt.Fprintf(ctx.Stdout, "project: %s\n", paths.ProjectConfig)
	fmt.Fprintf(ctx.Stdout, "env:     %s (%s_*)\n", paths.EnvFile, paths.EnvironmentPrefix)
	fmt.Fprintf(ctx.Stdout, "logs:    %s\n", config.GetDefaultLogPath())
	fmt.Fprintf(ctx.Stdout, "history: %s\n", config.GetDefaultHistoryPath())

	if len(loaded) == 0 {
		fmt.Fprintln(ctx.Stdout, "no configuration files found, using defaults")
		return nil
	}
	fmt.Fprintln(ctx.Stdout, "loaded:")
	for _, path := range loaded {
		fmt.Fprintf(ctx.Stdout, "  %s\n", path)
	}
	return nil
}
