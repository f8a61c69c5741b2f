// Package app wires the chat client, store, renderer and view model from a
// loaded configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/elee1766/streamchat/src/chatclient"
	"github.com/elee1766/streamchat/src/config"
	"github.com/elee1766/streamchat/src/render"
	"github.com/elee1766/streamchat/src/storage"
	"github.com/elee1766/streamchat/src/viewmodel"
)

// App represents the main application with all services
type App struct {
	Client    *chatclient.Client
	Store     storage.Store
	Renderer  render.Renderer
	ViewModel *viewmodel.ViewModel
	Logger    *slog.Logger
	Config    *config.Config
}

// AppConfig holds configuration for creating a new App instance
type AppConfig struct {
	Config    *config.Config
	Logger    *slog.Logger
	Listeners []viewmodel.Listener
}

// New creates a new App instance with all services initialized
func New(ctx context.Context, cfg AppConfig) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	conf := cfg.Config
	if conf == nil {
		conf = config.DefaultConfig()
	}

	client, err := chatclient.NewClient(chatclient.Config{
		BaseURL:       conf.API.BaseURL,
		Transport:     conf.API.Transport,
		Headers:       conf.API.Headers,
		HeaderTimeout: conf.API.HeaderTimeout.Duration,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}

	renderer, err := render.New(render.Options{
		Format:   conf.Render.Format,
		Style:    conf.Render.Style,
		WordWrap: conf.Render.WordWrap,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	store, err := storage.New(conf.Store.Driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	vm, err := viewmodel.New(ctx, viewmodel.Config{
		Store:        store,
		Opener:       client,
		Renderer:     renderer,
		Listeners:    cfg.Listeners,
		Logger:       logger,
		DefaultTitle: conf.Chat.DefaultTitle,
		TitleLength:  conf.Chat.TitleLength,
		FallbackText: conf.Chat.FallbackErrorText,
		Shortcuts:    conf.Chat.Shortcuts,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create view model: %w", err)
	}

	logger.Debug("app initialized",
		"base_url", conf.API.BaseURL,
		"transport", client.Transport(),
		"render_format", renderer.Format(),
		"store", conf.Store.Driver)

	return &App{
		Client:    client,
		Store:     store,
		Renderer:  renderer,
		ViewModel: vm,
		Logger:    logger,
		Config:    conf,
	}, nil
}

// Close closes all resources held by the app
func (a *App) Close() error {
	var errs []error
	if a.ViewModel != nil {
		errs = append(errs, a.ViewModel.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
