package classify

import (
	"strings"

	"golang.org/x/net/html"
)

// SummaryLength is the rune limit of a signal summary.
const SummaryLength = 140

// StripHTML returns the text content of an HTML fragment with whitespace
// collapsed. Script and style bodies are dropped.
func StripHTML(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var (
		b    strings.Builder
		skip int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.WriteString(z.Token().Data)
			}
		}
	}
}

func isRawText(name []byte) bool {
	tag := string(name)
	return tag == "script" || tag == "style"
}

// Summarize joins title and the stripped body, truncating to n runes with
// "..." appended when the text is longer.
func Summarize(title, body string, n int) string {
	text := strings.TrimSpace(strings.TrimSpace(title) + " " + StripHTML(body))
	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
