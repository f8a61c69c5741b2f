package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListing(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     []string
	}{
		{
			name:     "dash bullets",
			markdown: "- Alpha\n- Beta\n- Gamma\n",
			want:     []string{"Alpha", "Beta", "Gamma"},
		},
		{
			name:     "star bullets with preamble",
			markdown: "Available stories:\n\n* The Lighthouse\n* Paper Moons",
			want:     []string{"The Lighthouse", "Paper Moons"},
		},
		{
			name:     "inline markup is flattened",
			markdown: "- **Ember** and *Ash*\n- `code`",
			want:     []string{"Ember and Ash", "code"},
		},
		{
			name:     "nested items excluded",
			markdown: "- Parent\n  - Child\n- Sibling\n",
			want:     []string{"Parent", "Sibling"},
		},
		{
			name:     "ordered list",
			markdown: "1. First\n2. Second\n",
			want:     []string{"First", "Second"},
		},
		{
			name:     "no list",
			markdown: "nothing to see",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseListing(tt.markdown)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
