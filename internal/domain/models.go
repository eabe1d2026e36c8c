package domain

// Domain contains core models shared by the catalog, favorites and notifiers.

// Category is the label assigned to an article by keyword classification.
type Category string

const (
	General       Category = "General"
	Sports        Category = "Sports"
	Business      Category = "Business"
	Technology    Category = "Technology"
	Health        Category = "Health"
	Entertainment Category = "Entertainment"
)

// AllLabel selects every category in filtered views.
const AllLabel = "All"

// Article is a single news item. Empty Description and ImageURL mean the
// upstream record had no value for them.
type Article struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url,omitempty"`
	Category    Category `json:"category"`
}

// SameContent reports whether two articles carry identical title, description,
// url and image. Category is not part of the comparison.
func (a Article) SameContent(b Article) bool {
	return a.Title == b.Title &&
		a.Description == b.Description &&
		a.URL == b.URL &&
		a.ImageURL == b.ImageURL
}

// SameURL reports whether two articles point at the same canonical URL.
func (a Article) SameURL(b Article) bool {
	return a.URL == b.URL
}
