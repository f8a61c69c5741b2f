package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/peterh/liner"

	"github.com/elee1766/streamchat/src/chatclient"
	"github.com/elee1766/streamchat/src/config"
	"github.com/elee1766/streamchat/src/sse"
	"github.com/elee1766/streamchat/src/viewmodel"
)

// Exit codes following standard conventions
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error
	ExitUsage       = 2 // Usage error
	ExitConfig      = 3 // Configuration error
	ExitAuth        = 4 // Authentication error
	ExitNetwork     = 6 // Network error
	ExitInterrupted = 8 // Interrupted by user
)

// ErrConfiguration marks failures to load or validate configuration
var ErrConfiguration = errors.New("configuration error")

// getExitCode determines the appropriate exit code for an error
func getExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		validation config.ValidationError
		apiErr     *chatclient.APIError
		transport  *sse.TransportError
	)

	switch {
	case errors.Is(err, ErrConfiguration), errors.As(err, &validation):
		return ExitConfig
	case errors.Is(err, viewmodel.ErrEmptyInput), errors.Is(err, chatclient.ErrEmptyQuery):
		return ExitUsage
	case errors.Is(err, context.Canceled), errors.Is(err, liner.ErrPromptAborted):
		return ExitInterrupted
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return ExitAuth
		}
		return ExitNetwork
	case errors.As(err, &transport):
		return ExitNetwork
	default:
		return ExitError
	}
}
