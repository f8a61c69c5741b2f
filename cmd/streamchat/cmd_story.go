package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/elee1766/streamchat/src/app"
)

// StoryCmd prints the names in the backend's story listing
type StoryCmd struct {
	JSON bool `help:"Print the listing as a JSON array"`
}

func (s *StoryCmd) Run(ctx *kong.Context, cli *CLI) error {
	mgr, err := cli.loadConfig()
	if err != nil {
		return err
	}
	conf := mgr.GetConfig()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appInstance, err := app.New(runCtx, app.AppConfig{
		Config: conf,
		Logger: createCLILogger(conf.Logging),
	})
	if err != nil {
		return err
	}
	defer appInstance.Close()

	names, err := appInstance.Client.Story(runCtx)
	if err != nil {
		return fmt.Errorf("failed to fetch story: %w", err)
	}

	if s.JSON {
		enc := json.NewEncoder(ctx.Stdout)
		enc.SetIndent("", "  ")
		if names == nil {
			names = []string{}
		}
		return enc.Encode(names)
	}
	for i, name := range names {
		fmt.Fprintf(ctx.Stdout, "%d. %s\n", i+1, name)
	}
	return nil
}
