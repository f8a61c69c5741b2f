package sse

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader returns its chunks one Read at a time.
type chunkReader struct {
	chunks []string
	closed int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func (r *chunkReader) Close() error {
	r.closed++
	return nil
}

// messageSource replays fixed messages.
type messageSource struct {
	messages []string
	err      error
	closed   int
}

func (s *messageSource) ReadMessage(ctx context.Context) ([]byte, error) {
	if len(s.messages) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	msg := s.messages[0]
	s.messages = s.messages[1:]
	return []byte(msg), nil
}

func (s *messageSource) Close() error {
	s.closed++
	return nil
}

func readAll(t *testing.T, s Stream) ([]Event, error) {
	t.Helper()
	var events []Event
	for {
		ev, err := s.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return events, err
		}
		events = append(events, ev)
	}
}

func TestReaderDecoderChunkBoundaries(t *testing.T) {
	want := []Event{
		IDAssigned("c1"),
		ContentChunk("Hel"),
		ContentChunk("lo"),
		Done(),
	}

	tests := []struct {
		name   string
		chunks []string
	}{
		{
			name: "one frame per chunk",
			chunks: []string{
				"data: {\"conversation_id\":\"c1\"}\n\n",
				"data: {\"content\":\"Hel\"}\n\n",
				"data: {\"content\":\"lo\"}\n\n",
				"data: {\"content\":\"[DONE]\"}\n\n",
			},
		},
		{
			name: "many frames in one chunk",
			chunks: []string{
				"data: {\"conversation_id\":\"c1\"}\n\ndata: {\"content\":\"Hel\"}\n\ndata: {\"content\":\"lo\"}\n\ndata: {\"content\":\"[DONE]\"}\n\n",
			},
		},
		{
			name: "frames split across chunks",
			chunks: []string{
				"data: {\"conversation_id\":",
				"\"c1\"}\n",
				"\ndata: {\"content\":\"He",
				"l\"}\r\n\r\ndata: {\"content\":\"lo\"}",
				"\n",
				"",
				"data: {\"content\":\"[DO",
				"NE]\"}\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewReaderDecoder(&chunkReader{chunks: tt.chunks}, DecoderConfig{})
			got, err := readAll(t, dec)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReaderDecoderOneByteReads(t *testing.T) {
	input := "data: {\"content\":\"a\"}\ndata: {\"content\":\"b\"}\ndata: {\"content\":\"[DONE]\"}\n"
	dec := NewReaderDecoder(iotest.OneByteReader(strings.NewReader(input)), DecoderConfig{})

	got, err := readAll(t, dec)
	require.NoError(t, err)
	assert.Equal(t, []Event{ContentChunk("a"), ContentChunk("b"), Done()}, got)
}

func TestReaderDecoderDropsMalformed(t *testing.T) {
	input := strings.Join([]string{
		": keep-alive comment",
		"event: message",
		"data: {broken",
		"data: {}",
		"data: {\"content\":\"ok\"}",
		"data: {\"content\":\"\"}",
		"",
	}, "\n")

	dec := NewReaderDecoder(strings.NewReader(input), DecoderConfig{})
	got, err := readAll(t, dec)
	require.NoError(t, err)
	assert.Equal(t, []Event{ContentChunk("ok")}, got)
	assert.Equal(t, 4, dec.Dropped())
}

func TestReaderDecoderOnlyMalformedEmitsNothing(t *testing.T) {
	dec := NewReaderDecoder(strings.NewReader("data: nope\ndata: {\"x\":1}\n"), DecoderConfig{})
	got, err := readAll(t, dec)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReaderDecoderDiscardsUnterminatedTail(t *testing.T) {
	input := "data: {\"content\":\"kept\"}\ndata: {\"content\":\"lost\"}"
	dec := NewReaderDecoder(strings.NewReader(input), DecoderConfig{})

	got, err := readAll(t, dec)
	require.NoError(t, err)
	assert.Equal(t, []Event{ContentChunk("kept")}, got)
}

func TestReaderDecoderFrameTooLarge(t *testing.T) {
	for _, limit := range []int{64, 1024, 4095} {
		t.Run(strconv.Itoa(limit), func(t *testing.T) {
			input := "data: {\"content\":\"" + strings.Repeat("x", limit) + "\"}\n"
			dec := NewReaderDecoder(strings.NewReader(input), DecoderConfig{MaxFrameSize: limit})

			_, err := dec.Read()
			require.Error(t, err)
			assert.True(t, IsTransportError(err))
			assert.ErrorIs(t, err, ErrFrameTooLarge)
		})
	}
}

func TestReaderDecoderFrameWithinLimit(t *testing.T) {
	input := "data: {\"content\":\"fits\"}\n"
	dec := NewReaderDecoder(strings.NewReader(input), DecoderConfig{MaxFrameSize: 64})

	ev, err := dec.Read()
	require.NoError(t, err)
	assert.Equal(t, ContentChunk("fits"), ev)
}

func TestReaderDecoderTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("data: {\"content\":\"part\"}\n"), iotest.ErrReader(boom))
	dec := NewReaderDecoder(r, DecoderConfig{})

	ev, err := dec.Read()
	require.NoError(t, err)
	assert.Equal(t, ContentChunk("part"), ev)

	_, err = dec.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsTransportError(err))

	// Not restartable: the same failure is reported again.
	_, err = dec.Read()
	assert.ErrorIs(t, err, boom)
}

func TestDecoderCloseOnce(t *testing.T) {
	src := &chunkReader{chunks: []string{"data: {\"content\":\"a\"}\n"}}
	dec := NewReaderDecoder(src, DecoderConfig{})

	require.NoError(t, dec.Close())
	require.NoError(t, dec.Close())
	assert.Equal(t, 1, src.closed)

	_, err := dec.Read()
	assert.ErrorIs(t, err, ErrStreamClosed)
}

func TestDecoderEOFIsSticky(t *testing.T) {
	dec := NewReaderDecoder(strings.NewReader(""), DecoderConfig{})
	_, err := dec.Read()
	assert.ErrorIs(t, err, io.EOF)
	_, err = dec.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestMessageDecoder(t *testing.T) {
	src := &messageSource{messages: []string{
		`data: {"conversation_id":"srv-1"}`,
		`{"content":"Hel"}`,
		`garbage`,
		`data: {"content":"lo"}` + "\n",
		`data: {"content":"[DONE]"}`,
	}}
	dec := NewMessageDecoder(context.Background(), src, DecoderConfig{})

	got, err := readAll(t, dec)
	require.NoError(t, err)
	assert.Equal(t, []Event{IDAssigned("srv-1"), ContentChunk("Hel"), ContentChunk("lo"), Done()}, got)
	assert.Equal(t, 1, dec.Dropped())

	require.NoError(t, dec.Close())
	assert.Equal(t, 1, src.closed)
}

func TestMessageDecoderTransportError(t *testing.T) {
	boom := errors.New("socket closed abnormally")
	src := &messageSource{err: boom}
	dec := NewMessageDecoder(context.Background(), src, DecoderConfig{})

	_, err := dec.Read()
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsTransportError(err))
}
