package inkwell

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/okvist/inkwell/content"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{"no segments", "https://example.com", nil, "https://example.com"},
		{"one segment", "https://example.com", []string{"blog"}, "https://example.com/blog/"},
		{"nested", "https://example.com", []string{"blog", "my-post"}, "https://example.com/blog/my-post/"},
		{"base with path", "https://example.com/site", []string{"blog"}, "https://example.com/site/blog/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL(tt.base, tt.segments...); got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"a", "", "  ", "b", "\t"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("FilterEmpty() = %v", got)
	}
}

func postWith(slug string, categories ...string) Post {
	return Post{Meta: content.Meta{Slug: slug, Title: slug, Categories: categories}}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := postWith("current", "go", "web")
	posts := []Post{
		current,
		postWith("shares-go", "go"),
		postWith("shares-web-caps", "Web"),
		postWith("unrelated", "cooking"),
		postWith("no-categories"),
	}

	related := FilterRelatedPosts(current, posts)
	if len(related) != 2 {
		t.Fatalf("got %d related posts, want 2: %v", len(related), related)
	}
	if related[0].Slug != "shares-go" || related[1].Slug != "shares-web-caps" {
		t.Errorf("unexpected related posts: %v", related)
	}
}

func TestFilterRelatedPostsExcludesSelf(t *testing.T) {
	current := postWith("current", "go")
	related := FilterRelatedPosts(current, []Post{current})
	if len(related) != 0 {
		t.Errorf("post must not be related to itself: %v", related)
	}
}

func TestWebsiteJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "Blog", URL: "https://example.com", Description: "desc", Author: "Jo"}

	var data map[string]any
	if err := json.Unmarshal([]byte(WebsiteJsonLD(cfg)), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["@type"] != "WebSite" {
		t.Errorf("@type = %v", data["@type"])
	}
	if data["name"] != "Blog" {
		t.Errorf("name = %v", data["name"])
	}
	author, ok := data["author"].(map[string]any)
	if !ok || author["name"] != "Jo" {
		t.Errorf("author = %v", data["author"])
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "Blog", URL: "https://example.com", Author: "Jo"}
	post := Post{Meta: content.Meta{
		Title:       "A Post",
		Slug:        "a-post",
		Intro:       "intro",
		Categories:  []string{"go", "web"},
		DateCreated: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}}

	var data map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg)), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["@type"] != "BlogPosting" {
		t.Errorf("@type = %v", data["@type"])
	}
	if data["headline"] != "A Post" {
		t.Errorf("headline = %v", data["headline"])
	}
	if data["datePublished"] != "2024-03-01" {
		t.Errorf("datePublished = %v", data["datePublished"])
	}
	url, _ := data["url"].(string)
	if !strings.HasSuffix(url, "/blog/a-post/") {
		t.Errorf("url = %q", url)
	}
	if data["keywords"] != "go, web" {
		t.Errorf("keywords = %v", data["keywords"])
	}
}
