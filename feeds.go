package pagepress

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// handleSitemap emits a sitemap covering the landing page, all stored pages,
// and all public articles.
func (a *App) handleSitemap(c echo.Context) error {
	pages, err := a.Store.ListPages()
	if err != nil {
		return err
	}
	articles, err := a.Store.ListAllArticles()
	if err != nil {
		return err
	}

	base := a.Config.URL
	urls := []sitemapURL{{Loc: BuildURL(base)}}
	for _, p := range pages {
		if p.Slug == "home" {
			continue
		}
		urls = append(urls, sitemapURL{Loc: BuildURL(base, p.Slug)})
	}
	urls = append(urls, sitemapURL{Loc: BuildURL(base, "articles")})
	for _, art := range articles {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "articles", art.Slug)})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	GUID        string `xml:"guid"`
}

// handleFeed emits an RSS 2.0 feed of all articles, newest first.
func (a *App) handleFeed(c echo.Context) error {
	articles, err := a.Store.ListAllArticles()
	if err != nil {
		return err
	}

	base := a.Config.URL
	items := make([]rssItem, 0, len(articles))
	for _, art := range articles {
		articleURL := BuildURL(base, "articles", art.Slug)
		items = append(items, rssItem{
			Title:       art.Name,
			Link:        articleURL,
			Description: summarize(art.Content),
			Category:    art.Category,
			GUID:        articleURL,
		})
	}
	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// summarize truncates content for feed descriptions at a rune boundary.
func summarize(content string) string {
	const max = 280
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}
