package chatclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantMsg    string
		wantServer bool
		wantNotFnd bool
	}{
		{
			name:    "with code",
			err:     &APIError{StatusCode: 400, Code: "bad_query", Message: "query too long"},
			wantMsg: "API error 400 (bad_query): query too long",
		},
		{
			name:       "server error",
			err:        &APIError{StatusCode: 502, Message: "upstream down"},
			wantMsg:    "API error 502: upstream down",
			wantServer: true,
		},
		{
			name:       "not found",
			err:        &APIError{StatusCode: 404, Message: "Not Found"},
			wantMsg:    "API error 404: Not Found",
			wantNotFnd: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.wantServer, tt.err.IsServerError())
			assert.Equal(t, tt.wantNotFnd, tt.err.IsNotFound())
		})
	}
}
