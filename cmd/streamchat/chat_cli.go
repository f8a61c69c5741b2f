package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI. An empty historyFile disables history.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with the given prompt. A non-empty prefill is
// placed in the edit buffer with the cursor at its end.
func (c *ChatCLI) ReadInput(prompt, prefill string) (string, error) {
	var (
		input string
		err   error
	)
	if prefill != "" {
		input, err = c.line.PromptWithSuggestion(prompt, prefill, -1)
	} else {
		input, err = c.line.Prompt(prompt)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if c.historyFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0755); err != nil {
		return
	}

	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}
