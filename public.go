package pagepress

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// handleHome serves the landing page: the stored page whose slug is "home".
// A missing home record renders an empty page rather than a 404, so a fresh
// install still answers on /.
func (a *App) handleHome(c echo.Context) error {
	page, err := a.Store.GetPageBySlug("home")
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return a.renderPage(c, page)
}

// handlePage resolves /:slug to a stored page.
func (a *App) handlePage(c echo.Context) error {
	page, err := a.Store.GetPageBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return a.renderPage(c, page)
}

func (a *App) renderPage(c echo.Context, page Page) error {
	categories, err := a.Categories.List()
	if err != nil {
		return err
	}
	title := page.Title
	if title == "" {
		title = a.Config.Name
	}
	url := a.Config.URL
	if page.Slug != "" && page.Slug != "home" {
		url = BuildURL(a.Config.URL, page.Slug)
	}
	meta := PageMeta{
		Title:       title,
		Description: a.Config.Description,
		URL:         url,
		OGType:      "website",
	}
	return Render(c, a.Views.Page(page, meta, categories))
}

// handleArticles serves the public article listing, newest first, optionally
// filtered to one category via ?category=<id>.
func (a *App) handleArticles(c echo.Context) error {
	var (
		articles []Article
		err      error
	)
	if v := c.QueryParam("category"); v != "" {
		categoryID, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		articles, err = a.Store.ListArticlesByCategory(categoryID)
	} else {
		articles, err = a.Store.ListAllArticles()
	}
	if err != nil {
		return err
	}
	categories, err := a.Categories.List()
	if err != nil {
		return err
	}
	meta := PageMeta{
		Title:       "Articles",
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL, "articles"),
		OGType:      "website",
	}
	return Render(c, a.Views.ArticleList(articles, meta, categories))
}

// handleArticle serves a single public article by slug.
func (a *App) handleArticle(c echo.Context) error {
	article, err := a.Store.GetArticleBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	categories, err := a.Categories.List()
	if err != nil {
		return err
	}
	meta := PageMeta{
		Title:       article.Name,
		Description: summarize(article.Content),
		URL:         BuildURL(a.Config.URL, "articles", article.Slug),
		OGType:      "article",
	}
	return Render(c, a.Views.Article(article, meta, categories))
}

// handleLike increments an article's like counter and returns the new count.
func (a *App) handleLike(c echo.Context) error {
	likes, err := a.Store.LikeArticle(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return c.String(http.StatusOK, strconv.Itoa(likes))
}

// handleRobots generates robots.txt dynamically from the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
