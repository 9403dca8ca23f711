package pagepress

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested article or page does not exist.
var ErrNotFound = sql.ErrNoRows

// ErrDuplicateSlug is returned when saving an article whose slug is already
// taken by another article. The slug column carries a UNIQUE constraint, so
// this is authoritative even when two writers race past the pre-check.
var ErrDuplicateSlug = errors.New("pagepress: slug already in use")

// Store wraps a SQLite database and provides CRUD operations for articles,
// categories, and pages.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and
	// enforce the category foreign key at the storage level.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    sorting INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS articles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    image TEXT NOT NULL DEFAULT 'noimage.png',
    likes INTEGER NOT NULL DEFAULT 0,
    category_id INTEGER NOT NULL REFERENCES categories(id)
);
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    content TEXT NOT NULL
);
`)
	return err
}

// isSlugConflict reports whether err is a UNIQUE violation on an article or
// page slug. modernc.org/sqlite surfaces constraint failures as plain errors,
// so the check matches on the message.
func isSlugConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") &&
		strings.Contains(err.Error(), ".slug")
}

const articleColumns = `a.id, a.name, a.slug, a.content, a.image, a.likes, a.category_id, c.name
FROM articles a JOIN categories c ON c.id = a.category_id`

func scanArticle(row interface{ Scan(...any) error }) (Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.Content, &a.Image, &a.Likes, &a.CategoryID, &a.Category)
	return a, err
}

// ListArticles returns one page of articles, newest first (id descending),
// each with its category name resolved. Page numbers start at 1; a page past
// the end comes back empty rather than erroring.
func (s *Store) ListArticles(page, size int) ([]Article, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.db.Query(`SELECT `+articleColumns+` ORDER BY a.id DESC LIMIT ? OFFSET ?`,
		size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ListArticlesByCategory returns all articles in a category, newest first.
func (s *Store) ListArticlesByCategory(categoryID int64) ([]Article, error) {
	rows, err := s.db.Query(`SELECT `+articleColumns+` WHERE a.category_id = ? ORDER BY a.id DESC`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ListAllArticles returns every article, newest first. Used by the public
// listing, the feed, and the sitemap.
func (s *Store) ListAllArticles() ([]Article, error) {
	rows, err := s.db.Query(`SELECT ` + articleColumns + ` ORDER BY a.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CountArticles returns the total number of stored articles.
func (s *Store) CountArticles() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}

// GetArticle returns the article with the given id, category resolved.
func (s *Store) GetArticle(id int64) (Article, error) {
	return scanArticle(s.db.QueryRow(`SELECT `+articleColumns+` WHERE a.id = ?`, id))
}

// GetArticleBySlug returns the article with the given slug, category resolved.
func (s *Store) GetArticleBySlug(slug string) (Article, error) {
	return scanArticle(s.db.QueryRow(`SELECT `+articleColumns+` WHERE a.slug = ?`, slug))
}

// SlugInUse reports whether an article other than excludeID already uses slug.
// Pass excludeID 0 when creating.
func (s *Store) SlugInUse(slug string, excludeID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM articles WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n > 0, err
}

// InsertArticle stores a new article and returns its generated id.
// A slug collision comes back as ErrDuplicateSlug.
func (s *Store) InsertArticle(a Article) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO articles (name, slug, content, image, likes, category_id) VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, a.Slug, a.Content, a.Image, a.Likes, a.CategoryID)
	if err != nil {
		if isSlugConflict(err) {
			return 0, ErrDuplicateSlug
		}
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateArticle rewrites an existing article's editable fields.
// A slug collision comes back as ErrDuplicateSlug.
func (s *Store) UpdateArticle(a Article) error {
	_, err := s.db.Exec(`UPDATE articles SET name = ?, slug = ?, content = ?, image = ?, category_id = ? WHERE id = ?`,
		a.Name, a.Slug, a.Content, a.Image, a.CategoryID, a.ID)
	if isSlugConflict(err) {
		return ErrDuplicateSlug
	}
	return err
}

// DeleteArticle removes an article by id.
func (s *Store) DeleteArticle(id int64) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE id = ?`, id)
	return err
}

// LikeArticle atomically increments the like counter of the article with the
// given slug and returns the new count. Unknown slugs yield ErrNotFound.
func (s *Store) LikeArticle(slug string) (int, error) {
	res, err := s.db.Exec(`UPDATE articles SET likes = likes + 1 WHERE slug = ?`, slug)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	var likes int
	err = s.db.QueryRow(`SELECT likes FROM articles WHERE slug = ?`, slug).Scan(&likes)
	return likes, err
}

// ListCategories returns all categories ascending by sort order, then id.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT id, name, sorting FROM categories ORDER BY sorting, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Sorting); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SaveCategory inserts a category and returns its generated id. Categories
// are read-only from the admin article surface; this exists for site seeding
// and tests.
func (s *Store) SaveCategory(c Category) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO categories (name, sorting) VALUES (?, ?)`, c.Name, c.Sorting)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPageBySlug returns the page with the given slug.
func (s *Store) GetPageBySlug(slug string) (Page, error) {
	var p Page
	err := s.db.QueryRow(`SELECT id, slug, title, content FROM pages WHERE slug = ?`, slug).
		Scan(&p.ID, &p.Slug, &p.Title, &p.Content)
	return p, err
}

// ListPages returns all pages ordered by id.
func (s *Store) ListPages() ([]Page, error) {
	rows, err := s.db.Query(`SELECT id, slug, title, content FROM pages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Content); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// SavePage upserts a page keyed on its slug.
func (s *Store) SavePage(p Page) error {
	_, err := s.db.Exec(`INSERT INTO pages (slug, title, content) VALUES (?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET title = excluded.title, content = excluded.content`,
		p.Slug, p.Title, p.Content)
	return err
}
