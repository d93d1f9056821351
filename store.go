package pubmark

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/eringen/pubmark/outline"
)

// Store wraps a SQLite database holding the indexed posts and their outlines.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets handlers read while a reindex writes; busy_timeout makes the
	// writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
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
CREATE TABLE IF NOT EXISTS posts (
    permalink TEXT PRIMARY KEY,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    summary TEXT NOT NULL,
    content TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0,
    outline TEXT NOT NULL DEFAULT '{}',
    source TEXT NOT NULL DEFAULT ''
);
`)
	return err
}

const postColumns = `permalink, slug, title, date, tags, summary, content, draft, outline, source`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (BlogPost, error) {
	var permalink, slug, title, date, tags, summary, content, outlineJSON, source string
	var draft int
	if err := row.Scan(&permalink, &slug, &title, &date, &tags, &summary, &content, &draft, &outlineJSON, &source); err != nil {
		return BlogPost{}, err
	}
	root := &outline.Node{}
	if err := json.Unmarshal([]byte(outlineJSON), root); err != nil {
		return BlogPost{}, fmt.Errorf("pubmark: decode outline of %s: %w", permalink, err)
	}
	return BlogPost{
		Permalink: permalink,
		Slug:      slug,
		Title:     title,
		Date:      date,
		Tags:      ParseTags(tags),
		Summary:   summary,
		Content:   content,
		Draft:     draft == 1,
		Outline:   root,
		Source:    source,
	}, nil
}

// ListPosts returns all indexed posts ordered by date descending.
// If tag is non-empty, results are filtered to posts containing that tag.
func (s *Store) ListPosts(tag string) ([]BlogPost, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT ` + postColumns + ` FROM posts ORDER BY date DESC, permalink`)
	} else {
		rows, err = s.db.Query(`SELECT `+postColumns+` FROM posts WHERE instr(lower(tags), ',' || ? || ',') > 0 ORDER BY date DESC, permalink`, normalizeTag(tag))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// ListTags returns a sorted, deduplicated slice of all tags.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single post by permalink.
func (s *Store) GetPost(permalink string) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE permalink = ?`, permalink)
	return scanPost(row)
}

// ReplacePosts swaps the whole index for posts in one transaction.
func (s *Store) ReplacePosts(posts []BlogPost) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO posts (` + postColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range posts {
		root := p.Outline
		if root == nil {
			root = &outline.Node{}
		}
		outlineJSON, err := json.Marshal(root)
		if err != nil {
			return err
		}
		draft := 0
		if p.Draft {
			draft = 1
		}
		if _, err := stmt.Exec(p.Permalink, p.Slug, p.Title, p.Date, joinTagColumn(p.Tags), p.Summary, p.Content, draft, string(outlineJSON), p.Source); err != nil {
			return fmt.Errorf("pubmark: index %s: %w", p.Permalink, err)
		}
	}
	return tx.Commit()
}

// CountPosts returns the number of indexed posts.
func (s *Store) CountPosts() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// joinTagColumn normalizes tags to lowercase and wraps them as ",a,b,".
func joinTagColumn(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = normalizeTag(t); t != "" {
			normalized = append(normalized, t)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
