// Package navigation encodes an article into the detail route handed across
// the UI boundary and decodes it back.
package navigation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

const (
	detailPrefix = "detail"

	// NoDescription replaces an absent description in detail routes.
	NoDescription = "No description"
)

// DetailRoute carries the four fields shown by the detail view.
type DetailRoute struct {
	Title       string
	Description string
	ImageURL    string
	URL         string
}

// RouteFor builds the detail route for a, substituting placeholders for
// absent fields.
func RouteFor(a domain.Article) DetailRoute {
	desc := a.Description
	if desc == "" {
		desc = NoDescription
	}
	return DetailRoute{
		Title:       a.Title,
		Description: desc,
		ImageURL:    a.ImageURL,
		URL:         a.URL,
	}
}

// Path renders detail/{title}/{description}/{imageUrl}/{url}.
func (r DetailRoute) Path() string {
	segments := []string{
		detailPrefix,
		EncodeSegment(r.Title),
		EncodeSegment(r.Description),
		EncodeSegment(r.ImageURL),
		EncodeSegment(r.URL),
	}
	return strings.Join(segments, "/")
}

// ParseDetailPath decodes a path produced by DetailRoute.Path.
func ParseDetailPath(path string) (DetailRoute, error) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) != 5 {
		return DetailRoute{}, fmt.Errorf("detail path has %d segments, want 5", len(parts))
	}
	if parts[0] != detailPrefix {
		return DetailRoute{}, fmt.Errorf("unexpected route prefix %q", parts[0])
	}

	fields := make([]string, 4)
	for i, seg := range parts[1:] {
		val, err := url.PathUnescape(seg)
		if err != nil {
			return DetailRoute{}, fmt.Errorf("decode segment %d: %w", i+1, err)
		}
		fields[i] = val
	}

	return DetailRoute{
		Title:       fields[0],
		Description: fields[1],
		ImageURL:    fields[2],
		URL:         fields[3],
	}, nil
}

// Article converts the route back into an article. The placeholder
// description is mapped back to an empty description.
func (r DetailRoute) Article() domain.Article {
	desc := r.Description
	if desc == NoDescription {
		desc = ""
	}
	return domain.Article{
		Title:       r.Title,
		Description: desc,
		URL:         r.URL,
		ImageURL:    r.ImageURL,
		Category:    domain.General,
	}
}

const upperhex = "0123456789ABCDEF"

// EncodeSegment percent-encodes s so it survives as one opaque path segment.
// ASCII letters, digits and -_.!~*'() pass through; every other byte,
// including '/', '&', '%', spaces and UTF-8 continuation bytes, is escaped.
func EncodeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
