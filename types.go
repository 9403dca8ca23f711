package pagepress

// Article is the core content type managed from the admin area.
// Category carries the resolved category name when the article was
// loaded with its category joined in.
type Article struct {
	ID         int64
	Name       string
	Slug       string
	Content    string
	Image      string
	Likes      int
	CategoryID int64
	Category   string
}

// HasImage reports whether the article carries a user-supplied image
// rather than the sentinel placeholder.
func (a Article) HasImage() bool {
	return a.Image != "" && a.Image != NoImage
}

// Category groups articles. Sorting is the explicit display order,
// independent of id order and not necessarily unique.
type Category struct {
	ID      int64
	Name    string
	Sorting int
}

// Page is a static page served on the public site by slug.
// The page with slug "home" is the landing record.
type Page struct {
	ID      int64
	Slug    string
	Title   string
	Content string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
