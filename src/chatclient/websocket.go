package chatclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/coder/websocket"

	"github.com/elee1766/streamchat/src/sse"
)

var _ sse.MessageSource = (*wsSource)(nil)

// wsSource adapts a websocket connection to sse.MessageSource. Each text
// message carries one frame.
type wsSource struct {
	conn *websocket.Conn
}

func (c *Client) dialWebsocket(ctx context.Context, query, convoID string) (*wsSource, error) {
	header := http.Header{}
	c.applyHeaders(header)

	conn, resp, err := websocket.Dial(ctx, c.streamURL("ws", query, convoID), &websocket.DialOptions{
		HTTPClient: c.httpClient,
		HTTPHeader: header,
	})
	if err != nil {
		if resp != nil && resp.StatusCode >= 300 {
			return nil, fmt.Errorf("websocket handshake: %w", &APIError{
				StatusCode: resp.StatusCode,
				Message:    http.StatusText(resp.StatusCode),
				RequestID:  resp.Header.Get("X-Request-ID"),
			})
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	limit := int64(c.config.MaxFrameSize)
	if limit <= 0 {
		limit = sse.DefaultMaxFrameSize
	}
	conn.SetReadLimit(limit)

	return &wsSource{conn: conn}, nil
}

// ReadMessage returns the next text message. A normal closure from the
// server ends the stream with io.EOF.
func (s *wsSource) ReadMessage(ctx context.Context) ([]byte, error) {
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil, io.EOF
			}
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if typ != websocket.MessageText {
			continue
		}
		return data, nil
	}
}

func (s *wsSource) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
