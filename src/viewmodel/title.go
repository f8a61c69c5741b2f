package viewmodel

// Title defaults.
const (
	DefaultTitle       = "New Chat"
	DefaultTitleLength = 10
	titleEllipsis      = "..."
)

// DeriveTitle returns the first n runes of text, with an ellipsis when
// text was cut.
func DeriveTitle(text string, n int) string {
	if n <= 0 {
		n = DefaultTitleLength
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + titleEllipsis
}
