package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/peterh/liner"

	"github.com/elee1766/streamchat/src/app"
	"github.com/elee1766/streamchat/src/config"
	"github.com/elee1766/streamchat/src/console"
	"github.com/elee1766/streamchat/src/storage"
	"github.com/elee1766/streamchat/src/theme"
	"github.com/elee1766/streamchat/src/viewmodel"
)

// ChatCmd starts the interactive chat
type ChatCmd struct {
	NoHistory bool `help:"Do not read or write input history"`
	Width     int  `help:"Terminal width used when redrawing streamed replies"`
}

func (c *ChatCmd) Run(ctx *kong.Context, cli *CLI) error {
	mgr, err := cli.loadConfig()
	if err != nil {
		return err
	}
	conf := mgr.GetConfig()
	logger := createREPLLogger(conf.Logging)

	theme.SetTheme(theme.ForStyle(conf.Render.Style))
	styles := theme.NewStyles(theme.CurrentTheme)

	width := c.Width
	if width <= 0 {
		width = conf.Render.WordWrap
	}
	out := console.NewProcessor(console.ProcessorConfig{
		Out:        ctx.Stdout,
		Styles:     styles,
		StreamMode: true,
		Width:      width,
	})

	appInstance, err := app.New(context.Background(), app.AppConfig{
		Config:    conf,
		Logger:    logger,
		Listeners: []viewmodel.Listener{out},
	})
	if err != nil {
		return err
	}
	defer appInstance.Close()

	historyFile := config.GetDefaultHistoryPath()
	if c.NoHistory {
		historyFile = ""
	}
	input := NewChatCLI(historyFile)
	defer input.Close()

	session := &chatSession{
		app:     appInstance,
		console: out,
		styles:  styles,
		out:     ctx.Stdout,
		logger:  logger,
	}
	fmt.Fprintln(ctx.Stdout, styles.Muted.Render("Type /help for commands, /quit to exit."))

	for {
		text, err := input.ReadInput(session.prompt(), out.TakePrefill())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(ctx.Stdout)
				return nil
			}
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		keepGoing, err := session.handleInput(context.Background(), text)
		if err != nil {
			fmt.Fprintln(ctx.Stdout, styles.Error.Render("[Error] "+err.Error()))
		}
		if !keepGoing {
			return nil
		}
	}
}

// chatSession handles one line of REPL input at a time.
type chatSession struct {
	app     *app.App
	console *console.Processor
	styles  theme.Styles
	out     io.Writer
	logger  *slog.Logger
}

func (s *chatSession) prompt() string {
	conv, err := s.app.ViewModel.Active(context.Background())
	if err != nil {
		return "> "
	}
	return conv.Title + "> "
}

// handleInput runs a slash command or sends text as a message. It returns
// false when the session should end.
func (s *chatSession) handleInput(ctx context.Context, input string) (bool, error) {
	if strings.HasPrefix(input, "/") {
		return s.handleSlashCommand(ctx, input)
	}
	return true, s.send(ctx, input)
}

// send streams one turn. Ctrl+C interrupts the stream; whatever arrived
// is kept.
func (s *chatSession) send(ctx context.Context, text string) error {
	sendCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	turn, err := s.app.ViewModel.SendUserMessage(sendCtx, text)
	if err != nil {
		return err
	}
	s.logTurn(turn)
	return nil
}

func (s *chatSession) logTurn(turn *viewmodel.Turn) {
	if turn == nil {
		return
	}
	if turn.Err != nil {
		s.logger.Warn("turn failed", "conversation_id", turn.ConversationID, "error", turn.Err)
		return
	}
	s.logger.Debug("turn complete",
		"conversation_id", turn.ConversationID,
		"server_conversation_id", turn.ServerConversationID,
		"bytes", len(turn.Content))
}

// handleSlashCommand processes slash commands.
func (s *chatSession) handleSlashCommand(ctx context.Context, input string) (bool, error) {
	parts := strings.Fields(input)
	command := strings.ToLower(parts[0])
	args := parts[1:]
	vm := s.app.ViewModel

	switch command {
	case "/help", "/h", "/?", "/":
		s.printHelp()
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	case "/new", "/n":
		_, err := vm.CreateConversation(ctx)
		return true, err

	case "/list", "/l":
		return true, s.printConversations(ctx)

	case "/switch", "/s":
		conv, err := s.conversationAt(ctx, args)
		if err != nil {
			return true, err
		}
		return true, vm.SwitchActive(ctx, conv.ID)

	case "/delete", "/d":
		conv, err := s.conversationAt(ctx, args)
		if err != nil {
			return true, err
		}
		return true, vm.DeleteConversation(ctx, conv.ID)

	case "/story":
		names, err := s.app.Client.Story(ctx)
		if err != nil {
			return true, fmt.Errorf("failed to fetch story: %w", err)
		}
		for i, name := range names {
			fmt.Fprintf(s.out, "%d. %s\n", i+1, name)
		}
		return true, nil

	case "/shortcuts":
		for i, shortcut := range vm.Shortcuts() {
			fmt.Fprintf(s.out, "%d. %q\n", i+1, shortcut)
		}
		return true, nil

	case "/run", "/r":
		shortcuts := vm.Shortcuts()
		i, err := parseIndex(args, len(shortcuts))
		if err != nil {
			return true, err
		}
		sendCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		turn, err := vm.RunShortcut(sendCtx, shortcuts[i])
		s.logTurn(turn)
		return true, err

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

func (s *chatSession) printConversations(ctx context.Context) error {
	convs, err := s.app.ViewModel.Conversations(ctx)
	if err != nil {
		return err
	}
	active := s.app.ViewModel.ActiveID()
	for i, conv := range convs {
		line := fmt.Sprintf("  %d. %s", i+1, conv.Title)
		if conv.ID == active {
			line = s.styles.Active.Render(fmt.Sprintf("* %d. %s", i+1, conv.Title))
		}
		fmt.Fprintln(s.out, line)
	}
	return nil
}

func (s *chatSession) conversationAt(ctx context.Context, args []string) (storage.Conversation, error) {
	convs, err := s.app.ViewModel.Conversations(ctx)
	if err != nil {
		return storage.Conversation{}, err
	}
	i, err := parseIndex(args, len(convs))
	if err != nil {
		return storage.Conversation{}, err
	}
	return convs[i], nil
}

// parseIndex reads a 1-based list position and returns it 0-based.
func parseIndex(args []string, n int) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one number")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("invalid number %q: choose 1-%d", args[0], n)
	}
	return i - 1, nil
}

func (s *chatSession) printHelp() {
	commands := []struct{ name, help string }{
		{"/new", "Start a new conversation"},
		{"/list", "List conversations"},
		{"/switch N", "Switch to conversation N"},
		{"/delete N", "Delete conversation N"},
		{"/story", "Show the story listing"},
		{"/shortcuts", "List shortcuts"},
		{"/run N", "Run shortcut N"},
		{"/quit", "Exit"},
	}
	for _, c := range commands {
		fmt.Fprintf(s.out, "  %-12s %s\n", c.name, s.styles.Muted.Render(c.help))
	}
}
