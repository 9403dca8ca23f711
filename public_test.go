package pagepress

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

func textComponent(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

// testViews renders each view as a small marker string so handler tests can
// assert on what was rendered without real templates.
func testViews() ViewFuncs {
	return ViewFuncs{
		Page: func(page Page, meta PageMeta, categories []Category) templ.Component {
			return textComponent("page[" + page.Slug + "|" + page.Title + "|" + meta.Title + "]")
		},
		ArticleList: func(articles []Article, meta PageMeta, categories []Category) templ.Component {
			return textComponent("articles[" + meta.OGType + "]")
		},
		Article: func(article Article, meta PageMeta, categories []Category) templ.Component {
			return textComponent("article[" + article.Slug + "|" + meta.OGType + "]")
		},
		NotFound:    func() templ.Component { return textComponent("missing") },
		ServerError: func() templ.Component { return textComponent("broken") },
	}
}

func newTestApp(t *testing.T) (*App, func()) {
	t.Helper()
	s, cleanup := setupTestStore(t)

	a := &App{
		Config: SiteConfig{
			Name:        "Testsite",
			URL:         "http://example.com",
			Description: "A site under test",
		},
		Echo:      echo.New(),
		Store:     s,
		Views:     testViews(),
		staticDir: filepath.Join(t.TempDir(), "public"),
	}
	a.Config.setDefaults()
	a.Media = NewMediaStore(filepath.Join(t.TempDir(), "media"))
	a.Categories = NewCategoryCache(s, time.Hour)
	a.setupRoutes()

	return a, cleanup
}

func (a *App) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHomeWithoutHomePage(t *testing.T) {
	a, cleanup := newTestApp(t)
	defer cleanup()

	// Fresh install, no "home" record: / still answers 200 with an empty page.
	rec := a.get(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "page[||Testsite]") {
		t.Errorf("body = %q, want empty page with the site name as title", body)
	}
}

func TestHomeWithHomePage(t *testing.T) {
	a, cleanup := newTestApp(t)
	defer cleanup()

	if err := a.Store.SavePage(Page{Slug: "home", Title: "Welcome", Content: "<p>Hi</p>"}); err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}

	rec := a.get(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); !strings.Contains(body, "page[home|Welcome|Welcome]") {
		t.Errorf("body = %q, want the stored home page", body)
	}
}

func TestPageNotFound(t *testing.T) {
	a, cleanup := newTestApp(t)
	defer cleanup()

	rec := a.get(t, "/no-such-page/")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /no-such-page/ = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if body := rec.Body.String(); !strings.Contains(body, "missing") {
		t.Errorf("body = %q, want the not-found view", body)
	}
}
