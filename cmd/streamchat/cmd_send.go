package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/elee1766/streamchat/src/app"
	"github.com/elee1766/streamchat/src/console"
	"github.com/elee1766/streamchat/src/viewmodel"
)

// SendCmd sends a single message and prints the committed reply
type SendCmd struct {
	Text    []string `arg:"" help:"The message to send"`
	ConvoID string   `name:"convo-id" help:"Continue an existing server conversation"`
	ShowID  bool     `help:"Print the server conversation id to stderr"`
}

func (s *SendCmd) Run(ctx *kong.Context, cli *CLI) error {
	mgr, err := cli.loadConfig()
	if err != nil {
		return err
	}
	conf := mgr.GetConfig()
	logger := createCLILogger(conf.Logging)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := console.NewProcessor(console.ProcessorConfig{
		Out:     ctx.Stdout,
		RawMode: true,
	})

	appInstance, err := app.New(runCtx, app.AppConfig{
		Config:    conf,
		Logger:    logger,
		Listeners: []viewmodel.Listener{out},
	})
	if err != nil {
		return err
	}
	defer appInstance.Close()

	if s.ConvoID != "" {
		if err := appInstance.ViewModel.ResumeServerConversation(runCtx, s.ConvoID); err != nil {
			return err
		}
	}

	turn, err := appInstance.ViewModel.SendUserMessage(runCtx, strings.Join(s.Text, " "))
	if err != nil {
		return err
	}

	if s.ShowID && turn.ServerConversationID != "" {
		fmt.Fprintf(ctx.Stderr, "conversation: %s\n", turn.ServerConversationID)
	}
	return turn.Err
}
