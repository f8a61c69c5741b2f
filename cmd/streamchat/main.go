package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	ConfigFile    string        `name:"config-file" short:"c" help:"Config file read after the user config" type:"path"`
	BaseURL       string        `help:"Chat backend base URL"`
	Transport     string        `help:"Stream transport (sse, websocket)"`
	HeaderTimeout time.Duration `help:"Time to wait for response headers"`
	Format        string        `short:"f" help:"Render format (terminal, html, plain)"`
	Style         string        `help:"Glamour style for terminal output"`
	Store         string        `help:"Conversation store (memory, sqlite)"`
	LogLevel      string        `help:"Log level (debug, info, warn, error)"`

	// Chat is the default command - interactive REPL
	Chat ChatCmd `default:"1" cmd:"" help:"Start an interactive chat (default)"`

	Send   SendCmd   `cmd:"" help:"Send one message and print the reply"`
	Story  StoryCmd  `cmd:"" help:"Print the story listing"`
	Config ConfigCmd `cmd:"" help:"Inspect configuration"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("streamchat"),
		kong.Description("Terminal client for a streaming chat backend"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(getExitCode(err))
	}
}
