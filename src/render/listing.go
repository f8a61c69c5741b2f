package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseListing extracts the top-level bullet items of a markdown list, in
// order. Text of nested lists is not included in its parent item.
func ParseListing(markdown string) ([]string, error) {
	var buf bytes.Buffer
	if err := newMarkdown().Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	var names []string
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("li").Length() > 0 {
			return
		}
		item := s.Clone()
		item.Find("ul, ol").Remove()
		if name := strings.Join(strings.Fields(item.Text()), " "); name != "" {
			names = append(names, name)
		}
	})
	return names, nil
}
