package pagepress

import (
	"net/url"
	"path"
	"strings"
)

// Slugify derives the URL identifier for an article from its display name:
// lowercase with spaces replaced by hyphens. Deliberately lenient — other
// URL-unsafe characters pass through unchanged so that slugs stay stable
// for content migrated from older installs.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// TotalPages returns ceiling(count / size): the number of pages needed to
// show count items at size per page. An empty table has zero pages.
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}
