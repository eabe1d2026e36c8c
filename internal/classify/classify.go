package classify

import (
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

type rule struct {
	category domain.Category
	keywords []string
}

// rules are evaluated in order; the first rule with a matching keyword wins.
var rules = []rule{
	{domain.Sports, []string{"cricket", "football", "match"}},
	{domain.Business, []string{"stocks", "market", "economy"}},
	{domain.Technology, []string{"ai", "tech", "innovation"}},
	{domain.Health, []string{"health", "medical", "covid"}},
	{domain.Entertainment, []string{"movie", "bollywood", "hollywood"}},
}

// AllCategories returns every category in menu order.
func AllCategories() []domain.Category {
	return []domain.Category{
		domain.Business,
		domain.Technology,
		domain.Sports,
		domain.Entertainment,
		domain.Health,
		domain.General,
	}
}

// Classify assigns a category from the title and description. The two are
// joined without a separator and matched by plain case-insensitive substring
// containment, so "ai" also hits "said" and a keyword may span the join.
func Classify(title, description string) domain.Category {
	text := strings.ToLower(title + description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.category
			}
		}
	}
	return domain.General
}

// Article returns a copy of a with its category assigned by Classify.
func Article(a domain.Article) domain.Article {
	a.Category = Classify(a.Title, a.Description)
	return a
}

// Parse resolves a user supplied label to a category filter value.
// "All" (any case) and the empty string both mean no filtering.
func Parse(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, domain.AllLabel) {
		return domain.AllLabel, nil
	}
	valid := []string{domain.AllLabel}
	for _, cat := range AllCategories() {
		if strings.EqualFold(string(cat), label) {
			return string(cat), nil
		}
		valid = append(valid, string(cat))
	}
	return "", fmt.Errorf("unknown category %q (valid: %s)", label, strings.Join(valid, ", "))
}
