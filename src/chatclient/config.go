package chatclient

import (
	"log/slog"
	"net/http"
	"time"
)

// Transport names accepted by Config.Transport.
const (
	TransportSSE       = "sse"
	TransportWebsocket = "websocket"
)

// Config holds configuration for the chat backend client
type Config struct {
	BaseURL       string            // Base URL of the chat backend
	Transport     string            // "sse" (default) or "websocket"
	Headers       map[string]string // Extra headers sent with every request
	HeaderTimeout time.Duration     // Time to wait for response headers, 0 waits forever
	MaxFrameSize  int               // Largest accepted frame, 0 uses the decoder default
	Logger        *slog.Logger      // Logger for debugging
	HTTPClient    *http.Client      // Optional, overrides the built client
}
