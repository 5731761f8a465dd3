package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicy = newContentPolicy()
	strictPolicy  = bluemonday.StrictPolicy()
)

// Post bodies come from the rich-text editor: UGC markup plus inline data
// images from older posts and alignment classes.
func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataURIImages()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("p", "span", "div", "img")
	p.AllowAttrs("target").Matching(bluemonday.Paragraph).OnElements("a")
	return p
}

// SanitizeContent cleans post HTML to prevent XSS.
func SanitizeContent(input string) string {
	return contentPolicy.Sanitize(input)
}

// SanitizeText strips every tag and returns plain text.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(input)))
}
