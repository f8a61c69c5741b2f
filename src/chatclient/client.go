package chatclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/elee1766/streamchat/src/render"
	"github.com/elee1766/streamchat/src/sse"
)

const (
	streamPath = "/chatstream"

	// StoryQuery asks the backend for its story listing.
	StoryQuery = "/story"
)

// Client opens chat streams against the backend.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    *url.URL
}

// NewClient creates a new chat backend client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	if config.Transport == "" {
		config.Transport = TransportSSE
	}
	switch config.Transport {
	case TransportSSE, TransportWebsocket:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, config.Transport)
	}

	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "chat_client")

	httpClient := config.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = config.HeaderTimeout
		// No overall timeout: a stream lasts as long as the backend keeps it open.
		httpClient = &http.Client{Transport: transport}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
		baseURL:    base,
	}, nil
}

// Transport returns the transport name in use.
func (c *Client) Transport() string {
	return c.config.Transport
}

// OpenStream sends a query and returns the response as an event stream.
// convoID is the server conversation id, empty for a new conversation.
func (c *Client) OpenStream(ctx context.Context, query, convoID string) (sse.Stream, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	logger := c.logger.With("method", "OpenStream", "transport", c.config.Transport, "has_convo_id", convoID != "")
	logger.Debug("opening stream")

	decoderCfg := sse.DecoderConfig{
		Logger:       c.logger,
		MaxFrameSize: c.config.MaxFrameSize,
	}

	if c.config.Transport == TransportWebsocket {
		src, err := c.dialWebsocket(ctx, query, convoID)
		if err != nil {
			logger.Error("websocket dial failed", "error", err)
			return nil, &sse.TransportError{Err: err}
		}
		return sse.NewMessageDecoder(ctx, src, decoderCfg), nil
	}

	req, err := c.newRequest(ctx, c.streamURL("http", query, convoID))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("request failed", "error", err)
		return nil, &sse.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		logger.Error("received error response", "status_code", resp.StatusCode)
		return nil, &sse.TransportError{Err: handleError(resp)}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "text/event-stream") {
		logger.Warn("unexpected content type", "content_type", ct)
	}

	return sse.NewReaderDecoder(resp.Body, decoderCfg), nil
}

// Story fetches the story listing and returns the entry names in order.
func (c *Client) Story(ctx context.Context) ([]string, error) {
	stream, err := c.OpenStream(ctx, StoryQuery, "")
	if err != nil {
		return nil, err
	}

	collected, err := sse.Collect(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read story listing: %w", err)
	}

	names, err := render.ParseListing(collected.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse story listing: %w", err)
	}
	c.logger.Debug("fetched story listing", "entries", len(names))
	return names, nil
}

// streamURL builds the stream endpoint address for the given scheme family.
func (c *Client) streamURL(family, query, convoID string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + streamPath
	if family == "ws" {
		switch u.Scheme {
		case "https":
			u.Scheme = "wss"
		case "http":
			u.Scheme = "ws"
		}
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("convo_id", convoID)
	u.RawQuery = q.Encode()
	return u.String()
}

// newRequest creates a new HTTP request with the appropriate headers.
func (c *Client) newRequest(ctx context.Context, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	c.applyHeaders(req.Header)
	return req, nil
}

func (c *Client) applyHeaders(h http.Header) {
	for k, v := range c.config.Headers {
		h.Set(k, v)
	}
}
