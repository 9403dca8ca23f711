package pagepress

import (
	"crypto/subtle"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return c.Redirect(http.StatusSeeOther, "/admin/articles/")
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/articles/")
	}
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminArticles serves the paged article list, newest first.
// ?p= selects the page; out-of-range pages come back empty.
func (a *App) handleAdminArticles(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	page, err := strconv.Atoi(c.QueryParam("p"))
	if err != nil || page < 1 {
		page = 1
	}
	articles, err := a.Store.ListArticles(page, a.Config.PageSize)
	if err != nil {
		return err
	}
	count, err := a.Store.CountArticles()
	if err != nil {
		return err
	}
	totalPages := TotalPages(count, a.Config.PageSize)
	return Render(c, a.Views.AdminArticles(articles, page, totalPages, takeFlash(c), CsrfToken(c)))
}

func (a *App) handleAdminArticleDetail(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	article, err := a.Store.GetArticle(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.AdminArticleDetail(article, CsrfToken(c)))
}

func (a *App) handleAdminArticleCreateForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderArticleForm(c, Article{}, "")
}

// handleAdminArticleCreate persists a new article. The slug is derived from
// the name; a duplicate re-renders the form with an error instead of saving.
func (a *App) handleAdminArticleCreate(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	article, formErr := a.bindArticleForm(c, Article{Image: NoImage})
	if formErr != "" {
		return a.renderArticleForm(c, article, formErr)
	}

	article.Slug = Slugify(article.Name)
	taken, err := a.Store.SlugInUse(article.Slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return a.renderArticleForm(c, article, "The article already exists.")
	}

	if file, err := c.FormFile("image"); err == nil {
		filename, err := a.Media.Save(file)
		if err != nil {
			return err
		}
		article.Image = filename
	}

	if _, err := a.Store.InsertArticle(article); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return a.renderArticleForm(c, article, "The article already exists.")
		}
		return err
	}
	return redirectWithFlash(c, "/admin/articles/", "The article has been added!")
}

func (a *App) handleAdminArticleEditForm(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	article, err := a.Store.GetArticle(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return a.renderArticleForm(c, article, "")
}

// handleAdminArticleEdit applies form changes to an existing article.
// The slug uniqueness check excludes the article itself, so keeping the same
// name round-trips cleanly. A fresh upload replaces the previous image file.
func (a *App) handleAdminArticleEdit(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	existing, err := a.Store.GetArticle(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}

	article, formErr := a.bindArticleForm(c, existing)
	article.ID = id
	if formErr != "" {
		return a.renderArticleForm(c, article, formErr)
	}

	article.Slug = Slugify(article.Name)
	taken, err := a.Store.SlugInUse(article.Slug, id)
	if err != nil {
		return err
	}
	if taken {
		return a.renderArticleForm(c, article, "The article already exists.")
	}

	var upload *multipart.FileHeader
	if file, err := c.FormFile("image"); err == nil {
		upload = file
	}

	if err := a.saveArticleUpdate(article, existing.Image, upload); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return a.renderArticleForm(c, article, "The article already exists.")
		}
		return err
	}
	return redirectWithFlash(c, "/admin/articles/", "The article has been edited!")
}

// saveArticleUpdate persists an edited article, replacing its stored image
// when an upload is present. The new file is written before the row update
// and the old file removed only after it succeeds, so a slug conflict that
// slips past the pre-check never leaves the row referencing a deleted file.
func (a *App) saveArticleUpdate(article Article, oldImage string, upload *multipart.FileHeader) error {
	staged := ""
	if upload != nil {
		filename, err := a.Media.Save(upload)
		if err != nil {
			return err
		}
		article.Image = filename
		staged = filename
	}
	if err := a.Store.UpdateArticle(article); err != nil {
		if staged != "" {
			_ = a.Media.Remove(staged)
		}
		return err
	}
	if staged != "" && staged != oldImage {
		return a.Media.Remove(oldImage)
	}
	return nil
}

// handleAdminArticleDelete removes an article and its stored image file.
// A missing article is reported through a flash message, not an HTTP error.
func (a *App) handleAdminArticleDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return redirectWithFlash(c, "/admin/articles/", "The article does not exist!")
	}
	article, err := a.Store.GetArticle(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return redirectWithFlash(c, "/admin/articles/", "The article does not exist!")
		}
		return err
	}
	if err := a.Media.Remove(article.Image); err != nil {
		return err
	}
	if err := a.Store.DeleteArticle(id); err != nil {
		return err
	}
	return redirectWithFlash(c, "/admin/articles/", "The article has been deleted!")
}

// bindArticleForm reads the multipart form fields into base and validates the
// required ones. It returns a non-empty message when validation fails; the
// caller re-renders the form with it.
func (a *App) bindArticleForm(c echo.Context, base Article) (Article, string) {
	base.Name = strings.TrimSpace(c.FormValue("name"))
	base.Content = c.FormValue("content")
	if v := c.FormValue("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return base, "Choose a valid category."
		}
		base.CategoryID = id
	}
	switch {
	case base.Name == "":
		return base, "Name is required."
	case strings.TrimSpace(base.Content) == "":
		return base, "Content is required."
	case base.CategoryID == 0:
		return base, "Choose a category."
	}
	return base, ""
}

func (a *App) renderArticleForm(c echo.Context, article Article, errMsg string) error {
	categories, err := a.Store.ListCategories()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminArticleForm(article, categories, errMsg, CsrfToken(c)))
}
