package inkwell

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/a-h/templ"

	"github.com/okvist/inkwell/content"
)

// Build exports the site as static files into Config.OutputDir: the index,
// one page per post, the feed, sitemap, robots.txt, copied static assets, and
// processed image variants. Any failure aborts the build.
func (a *App) Build() error {
	posts, err := content.LoadDir(a.Config.ContentDir, a.render)
	if err != nil {
		return err
	}
	categories := collectCategories(posts)

	outDir := a.Config.OutputDir
	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("clean output dir %s: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outDir, err)
	}

	// Static assets, with image variants generated alongside.
	if _, err := os.Stat(a.Config.StaticDir); err == nil {
		if err := copyDirContents(a.Config.StaticDir, filepath.Join(outDir, "public")); err != nil {
			return fmt.Errorf("copy static assets: %w", err)
		}
	}
	if _, err := BuildImageVariants(
		filepath.Join(a.Config.StaticDir, "images"),
		filepath.Join(outDir, "public", "images"),
	); err != nil {
		return err
	}

	// Index page.
	if err := a.writeComponent(
		filepath.Join(outDir, "index.html"),
		a.Views.Home(posts, "", categories),
	); err != nil {
		return err
	}

	// One page per post.
	for _, p := range posts {
		if err := a.writeComponent(
			filepath.Join(outDir, "blog", p.Slug, "index.html"),
			a.Views.Post(p, FilterRelatedPosts(p, posts)),
		); err != nil {
			return err
		}
	}

	// 404 page for static hosts.
	if err := a.writeComponent(filepath.Join(outDir, "404.html"), a.Views.NotFound()); err != nil {
		return err
	}

	if err := writeTo(filepath.Join(outDir, "feed.xml"), func(w io.Writer) error {
		return a.writeRSS(w, posts)
	}); err != nil {
		return err
	}
	if err := writeTo(filepath.Join(outDir, "sitemap.xml"), func(w io.Writer) error {
		return a.writeSitemap(w, posts)
	}); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "robots.txt"), []byte(a.robotsTxt()), 0o644)
}

func (a *App) writeComponent(path string, cmp templ.Component) error {
	return writeTo(path, func(w io.Writer) error {
		return cmp.Render(context.Background(), w)
	})
}

func writeTo(path string, fn func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// copyDirContents recursively copies contents from src to dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, relPath)
		if d.IsDir() {
			return os.MkdirAll(dstPath, 0o755)
		}
		return copyFile(path, dstPath)
	})
}

func copyFile(srcFile, dstFile string) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return err
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dstFile), 0o755); err != nil {
		return err
	}
	dstF, err := os.Create(dstFile)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstF, srcF); err != nil {
		dstF.Close()
		return err
	}
	return dstF.Close()
}
