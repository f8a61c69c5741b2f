package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// HTML renders markdown to sanitized HTML. Line breaks inside paragraphs
// are kept.
type HTML struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTML creates an HTML renderer.
func NewHTML() *HTML {
	return &HTML{
		md:     newMarkdown(),
		policy: bluemonday.UGCPolicy(),
	}
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
}

func (h *HTML) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return h.policy.Sanitize(buf.String()), nil
}

func (h *HTML) Format() string { return FormatHTML }
