package catalog

import (
	"strings"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// FilterByCategory keeps articles whose category equals category.
// "All" and the empty string return the input unchanged.
func FilterByCategory(articles []domain.Article, category string) []domain.Article {
	if category == "" || category == domain.AllLabel {
		return articles
	}
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if string(a.Category) == category {
			out = append(out, a)
		}
	}
	return out
}

// Search keeps articles whose title or description contains query,
// ignoring case. An empty query returns the input unchanged.
func Search(articles []domain.Article, query string) []domain.Article {
	if query == "" {
		return articles
	}
	needle := strings.ToLower(query)
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Description), needle) {
			out = append(out, a)
		}
	}
	return out
}

// Filter applies the category filter and then the search filter.
func Filter(articles []domain.Article, category, query string) []domain.Article {
	return Search(FilterByCategory(articles, category), query)
}
