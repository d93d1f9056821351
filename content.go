package pubmark

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/eringen/pubmark/outline"
)

// LoadPosts reads every .md and .mdx file under dir. Files and directories
// whose names start with a dot are skipped. Two files with the same
// permalink are an error.
func LoadPosts(dir string) ([]BlogPost, error) {
	var posts []BlogPost
	sources := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".mdx":
		default:
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		post, err := loadPost(path, rel)
		if err != nil {
			return err
		}
		if prev, ok := sources[post.Permalink]; ok {
			return fmt.Errorf("pubmark: %s and %s share permalink %s", prev, post.Source, post.Permalink)
		}
		sources[post.Permalink] = post.Source
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return posts[i].Permalink < posts[j].Permalink
	})
	return posts, nil
}

func loadPost(path, rel string) (BlogPost, error) {
	f, err := os.Open(path)
	if err != nil {
		return BlogPost{}, err
	}
	defer f.Close()
	return ParsePost(f, rel)
}

// ParsePost parses a post file: front matter followed by a Markdown body.
// rel is the file path relative to the content directory; it names the post
// when the front matter has no permalink.
func ParsePost(r io.Reader, rel string) (BlogPost, error) {
	var fm FrontMatter
	body, err := frontmatter.Parse(r, &fm)
	if err != nil {
		return BlogPost{}, fmt.Errorf("pubmark: parse %s: %w", rel, err)
	}

	slug := postSlug(rel)
	permalink := fm.Permalink
	if permalink == "" {
		permalink = NormalizePermalink(slug)
	} else {
		permalink = NormalizePermalink(permalink)
		slug = SlugFromPermalink(permalink)
	}
	if permalink == "" {
		return BlogPost{}, fmt.Errorf("pubmark: %s: cannot derive a permalink from the file name, set one in the front matter", rel)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = slug
	}
	return BlogPost{
		Title:     title,
		Date:      strings.TrimSpace(fm.Date),
		Tags:      FilterEmpty(fm.Tags),
		Summary:   fm.Description,
		Permalink: permalink,
		Slug:      slug,
		Content:   string(body),
		Draft:     fm.Draft == nil || *fm.Draft,
		Outline:   outline.FromMarkdown(body),
		Source:    filepath.ToSlash(rel),
	}, nil
}

// postSlug names a post after its file, or after its directory for index files.
func postSlug(rel string) string {
	rel = filepath.ToSlash(rel)
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	if base == "index" {
		if dir := filepath.Base(filepath.Dir(rel)); dir != "." && dir != "/" {
			base = dir
		}
	}
	return Slugify(base)
}

// FilterDraftPosts keeps finished posts, plus drafts when includeDrafts is set.
func FilterDraftPosts(posts []BlogPost, includeDrafts bool) []BlogPost {
	out := make([]BlogPost, 0, len(posts))
	for _, p := range posts {
		if !p.Draft || includeDrafts {
			out = append(out, p)
		}
	}
	return out
}
