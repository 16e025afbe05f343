// Package content loads markdown posts from a directory. Each file carries a
// YAML front-matter block with post metadata; the body is handed to a caller
// supplied render function. Loading is a one-shot, build-time operation: an
// unreadable file aborts the whole load.
package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// wordsPerMinute is the reading speed used for the estimated read time.
const wordsPerMinute = 200

// Meta is the front-matter metadata of a single post. Fields that are missing
// or malformed in the front matter are left at their zero value; they surface
// as rendering gaps, never as load errors.
type Meta struct {
	Title       string
	Slug        string
	ReadTime    int // estimated minutes, always >= 1
	DateCreated time.Time
	Categories  []string
	Intro       string
	UseLatex    bool
}

// Post is a loaded content file: metadata plus the rendered HTML body.
type Post struct {
	Meta
	HTML      string
	WordCount int
}

// RenderFunc converts a markdown body into HTML.
type RenderFunc func(source []byte) (string, error)

// matter mirrors the front-matter schema. Free-form fields beyond these are
// ignored by design.
type matter struct {
	Title      string   `yaml:"title"`
	Date       string   `yaml:"dateCreated"`
	Intro      string   `yaml:"intro"`
	Categories []string `yaml:"categories"`
	UseLatex   bool     `yaml:"useLatex"`
}

// dateFormats are tried in order when parsing dateCreated.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadDir reads every .md file in dir and returns one Post per file, sorted by
// DateCreated descending. A file that cannot be read or rendered fails the
// whole load.
func LoadDir(dir string, render RenderFunc) ([]Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir %s: %w", dir, err)
	}

	var posts []Post
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			continue
		}
		post, err := LoadFile(filepath.Join(dir, entry.Name()), render)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].DateCreated.After(posts[j].DateCreated)
	})
	return posts, nil
}

// LoadFile loads a single markdown file into a Post.
func LoadFile(path string, render RenderFunc) (Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Post{}, fmt.Errorf("read content file %s: %w", path, err)
	}

	var fm matter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		// No parseable front matter: treat the whole file as body.
		body = raw
		fm = matter{}
	}

	html, err := render(body)
	if err != nil {
		return Post{}, fmt.Errorf("render %s: %w", path, err)
	}

	words := CountWords(body)
	post := Post{
		Meta: Meta{
			Title:       fm.Title,
			Slug:        Slug(filepath.Base(path)),
			ReadTime:    ReadTime(words),
			DateCreated: parseDate(fm.Date),
			Categories:  fm.Categories,
			Intro:       fm.Intro,
			UseLatex:    fm.UseLatex,
		},
		HTML:      html,
		WordCount: words,
	}
	return post, nil
}

// Slug derives a URL-safe slug from a markdown filename. It is a pure function
// of the filename: the extension is dropped and the rest is lowercased with
// runs of non-alphanumerics collapsed to single dashes.
func Slug(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	prev := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ReadTime estimates reading time in whole minutes from a word count. It is
// monotonic in words and never returns less than one minute.
func ReadTime(words int) int {
	if words <= 0 {
		return 1
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// CountWords counts whitespace-separated tokens in a markdown body.
func CountWords(body []byte) int {
	return len(strings.Fields(string(body)))
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
