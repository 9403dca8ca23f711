// Package pagepress is a small content-management engine built with Go, Echo,
// and templ. It provides an admin area for managing articles with categories
// and images, and a public site that serves stored pages by slug.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// pagepress handles the handler logic, middleware, storage, and media files.
package pagepress

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the engine calls when
// rendering pages. This is the inversion-of-control mechanism that lets users
// own and customize all templates. Public views receive a PageMeta for the
// <head> block and the ordered category list so every page can render a
// categories panel.
type ViewFuncs struct {
	Page               func(page Page, meta PageMeta, categories []Category) templ.Component
	ArticleList        func(articles []Article, meta PageMeta, categories []Category) templ.Component
	Article            func(article Article, meta PageMeta, categories []Category) templ.Component
	AdminLogin         func(showError bool, csrfToken string) templ.Component
	AdminArticles      func(articles []Article, page, totalPages int, message string, csrfToken string) templ.Component
	AdminArticleDetail func(article Article, csrfToken string) templ.Component
	AdminArticleForm   func(article Article, categories []Category, errMsg string, csrfToken string) templ.Component
	NotFound           func() templ.Component
	ServerError        func() templ.Component
}

// App is the central pagepress application. It wires together the store,
// media store, category cache, handlers, middleware, and user templates.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Store      *Store
	Media      *MediaStore
	Categories *CategoryCache
	Views      ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new pagepress App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, media store, cache, middleware, and routes,
// and starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("pagepress: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pagepress: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("pagepress: init store: %w", err)
	}
	a.Store = store

	a.Media = NewMediaStore(a.Config.MediaDir)
	a.Categories = NewCategoryCache(a.Store, a.Config.CategoryCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static assets: user files and uploaded article images.
	e.Static("/public", a.staticDir)
	e.Static("/media", a.Media.Dir())
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes. Echo prefers the static /articles segment over the
	// :slug parameter, so page slugs cannot shadow the article routes.
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/articles/", a.handleArticles)
	e.GET("/articles/:slug/", a.handleArticle)
	e.POST("/articles/:slug/like", a.handleLike)
	e.GET("/", a.handleHome)
	e.GET("/:slug/", a.handlePage)

	// Admin routes.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/articles/", a.handleAdminArticles)
	e.GET("/admin/articles/details/:id/", a.handleAdminArticleDetail)
	e.GET("/admin/articles/create/", a.handleAdminArticleCreateForm)
	e.POST("/admin/articles/create/", a.handleAdminArticleCreate)
	e.GET("/admin/articles/edit/:id/", a.handleAdminArticleEditForm)
	e.POST("/admin/articles/edit/:id/", a.handleAdminArticleEdit)
	e.GET("/admin/articles/delete/:id/", a.handleAdminArticleDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
// This is a convenience function for use in scaffolded main.go files.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("pagepress: required environment variable %s is not set", key)
	}
	return v
}
