package inkwell

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/okvist/inkwell/analytics"
)

// stubViews renders minimal markers so handler tests can assert on the output
// without pulling in real templates.
func stubViews() ViewFuncs {
	text := func(s string) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, s)
			return err
		})
	}
	return ViewFuncs{
		Home: func(posts []Post, activeCategory string, categories []string) templ.Component {
			return text(fmt.Sprintf("home:%d:%s", len(posts), activeCategory))
		},
		Post: func(post Post, related []Post) templ.Component {
			return text("post:" + post.Slug)
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return text(fmt.Sprintf("login:%v", showError))
		},
		AdminDashboard: func(postCount int, stats analytics.Stats, message, csrfToken string) templ.Component {
			return text("dashboard")
		},
		NotFound:    func() templ.Component { return text("not-found") },
		ServerError: func() templ.Component { return text("server-error") },
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	contentDir := t.TempDir()
	writePost(t, contentDir, "first.md", "---\ntitle: First\ndateCreated: 2024-01-01\ncategories: [go]\n---")
	writePost(t, contentDir, "second.md", "---\ntitle: Second\ndateCreated: 2024-02-01\n---")

	cfg := SiteConfig{
		Name:          "Test Blog",
		URL:           "https://example.com",
		ContentDir:    contentDir,
		StaticDir:     t.TempDir(),
		AdminPassword: "hunter2",
		SessionSecret: "0123456789abcdef0123456789abcdef",
	}
	app := New(cfg, stubViews(), WithRenderer(passthroughRender))
	if err := app.init(); err != nil {
		t.Fatalf("init() error = %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func do(app *App, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHandleHome(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "home:2:") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandleHomeCategoryFilter(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/?category=go")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "home:1:go") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandlePost(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/blog/first/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "post:first") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandlePostNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/blog/does-not-exist/")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not-found") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandleBlogRedirect(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/blog")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q", loc)
	}
}

func TestHandleFeed(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<rss") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandleSitemap(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<urlset") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandleRobots(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/robots.txt")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Disallow: /admin/") {
		t.Errorf("robots missing admin disallow: %q", body)
	}
	if !strings.Contains(body, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots missing sitemap: %q", body)
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	app := newTestApp(t)

	rec := do(app, http.MethodGet, "/admin/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "login:false") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestBuild(t *testing.T) {
	app := newTestApp(t)
	outDir := filepath.Join(t.TempDir(), "dist")
	app.Config.OutputDir = outDir

	if err := app.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, path := range []string{
		"index.html",
		filepath.Join("blog", "first", "index.html"),
		filepath.Join("blog", "second", "index.html"),
		"404.html",
		"feed.xml",
		"sitemap.xml",
		"robots.txt",
	} {
		if _, err := os.Stat(filepath.Join(outDir, path)); err != nil {
			t.Errorf("missing build output %s: %v", path, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(outDir, "blog", "first", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "post:first") {
		t.Errorf("post page = %q", data)
	}
}
