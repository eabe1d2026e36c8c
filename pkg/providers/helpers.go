package providers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

func responseSnippet(body []byte) string {
	const maxLen = 512
	s, cut := httpclient.Snippet(body, maxLen)
	if cut {
		return s + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// plainText flattens HTML fragments that some publishers put in
// descriptions and collapses whitespace.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
