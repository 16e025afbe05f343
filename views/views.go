// Package views provides the default templ components for an inkwell site.
// Components are built with templ.ComponentFunc so sites can replace any of
// them through the ViewFuncs struct without regenerating templates.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/okvist/inkwell"
	"github.com/okvist/inkwell/analytics"
)

// New returns the default view functions bound to the given site config.
func New(cfg inkwell.SiteConfig) inkwell.ViewFuncs {
	v := &viewSet{cfg: cfg}
	return inkwell.ViewFuncs{
		Home:           v.home,
		Post:           v.post,
		AdminLogin:     v.adminLogin,
		AdminDashboard: v.adminDashboard,
		NotFound:       v.notFound,
		ServerError:    v.serverError,
	}
}

type viewSet struct {
	cfg inkwell.SiteConfig
}

// component wraps a write function as a templ.Component.
func component(fn func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fn(w)
	})
}

func (v *viewSet) home(posts []inkwell.Post, activeCategory string, categories []string) templ.Component {
	return component(func(w io.Writer) error {
		meta := inkwell.PageMeta{
			Title:       v.cfg.Name,
			Description: v.cfg.Description,
			URL:         inkwell.BuildURL(v.cfg.URL),
			OGType:      "website",
		}
		return v.layout(w, meta, inkwell.WebsiteJsonLD(v.cfg), false, func(w io.Writer) error {
			fmt.Fprintf(w, `<header class="site-header"><h1>%s</h1><p>%s</p></header>`,
				esc(v.cfg.Name), esc(v.cfg.Description))

			// Category filter bar
			fmt.Fprint(w, `<nav class="categories">`)
			writeCategoryLink(w, "all", "/", activeCategory == "")
			for _, cat := range categories {
				writeCategoryLink(w, cat, "/?category="+inkwell.PathEscape(cat), cat == activeCategory)
			}
			fmt.Fprint(w, `</nav>`)

			fmt.Fprint(w, `<section class="posts">`)
			for _, p := range posts {
				writePostCard(w, p)
			}
			fmt.Fprint(w, `</section>`)
			return nil
		})
	})
}

func (v *viewSet) post(post inkwell.Post, related []inkwell.Post) templ.Component {
	return component(func(w io.Writer) error {
		meta := inkwell.PageMeta{
			Title:       post.Title + " · " + v.cfg.Name,
			Description: post.Intro,
			URL:         inkwell.BuildURL(v.cfg.URL, "blog", post.Slug),
			OGType:      "article",
		}
		return v.layout(w, meta, inkwell.BlogPostingJsonLD(post, v.cfg), post.UseLatex, func(w io.Writer) error {
			fmt.Fprint(w, `<article class="post">`)
			fmt.Fprintf(w, `<header><h1>%s</h1>`, esc(post.Title))
			fmt.Fprint(w, `<p class="post-meta">`)
			if !post.DateCreated.IsZero() {
				fmt.Fprintf(w, `<time datetime="%s">%s</time> · `,
					post.DateCreated.Format("2006-01-02"), post.DateCreated.Format("January 2, 2006"))
			}
			fmt.Fprintf(w, `%d min read`, post.ReadTime)
			if len(post.Categories) > 0 {
				fmt.Fprintf(w, ` · %s`, esc(inkwell.JoinCategories(post.Categories)))
			}
			fmt.Fprint(w, `</p></header>`)

			// Post body is pre-rendered, trusted HTML from the markdown pipeline.
			fmt.Fprint(w, post.HTML)
			fmt.Fprint(w, `</article>`)

			if len(related) > 0 {
				fmt.Fprint(w, `<aside class="related"><h2>Related posts</h2><ul>`)
				for _, r := range related {
					fmt.Fprintf(w, `<li><a href="/blog/%s/">%s</a></li>`,
						inkwell.PathEscape(r.Slug), esc(r.Title))
				}
				fmt.Fprint(w, `</ul></aside>`)
			}
			return nil
		})
	})
}

func (v *viewSet) adminLogin(showError bool, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		meta := inkwell.PageMeta{Title: "Admin · " + v.cfg.Name, URL: inkwell.BuildURL(v.cfg.URL, "admin")}
		return v.layout(w, meta, "", false, func(w io.Writer) error {
			fmt.Fprint(w, `<section class="admin-login"><h1>Admin login</h1>`)
			if showError {
				fmt.Fprint(w, `<p class="error">Wrong password.</p>`)
			}
			fmt.Fprintf(w, `<form method="post" action="/admin/login/">`+
				`<input type="hidden" name="_csrf" value="%s">`+
				`<input type="password" name="password" placeholder="Password" autofocus>`+
				`<button type="submit">Log in</button></form></section>`, esc(csrfToken))
			return nil
		})
	})
}

func (v *viewSet) adminDashboard(postCount int, stats analytics.Stats, message, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		meta := inkwell.PageMeta{Title: "Dashboard · " + v.cfg.Name, URL: inkwell.BuildURL(v.cfg.URL, "admin")}
		return v.layout(w, meta, "", false, func(w io.Writer) error {
			fmt.Fprint(w, `<section class="admin-dashboard"><h1>Dashboard</h1>`)
			if message != "" {
				fmt.Fprintf(w, `<p class="notice">%s</p>`, esc(message))
			}
			fmt.Fprintf(w, `<p>%d posts published.</p>`, postCount)

			fmt.Fprintf(w, `<h2>Last %s</h2><ul class="stats">`, esc(stats.Period))
			fmt.Fprintf(w, `<li>%d views</li><li>%d unique visitors</li></ul>`,
				stats.TotalViews, stats.UniqueVisitors)

			if len(stats.TopPages) > 0 {
				fmt.Fprint(w, `<h2>Top pages</h2><table><thead><tr><th>Path</th><th>Views</th></tr></thead><tbody>`)
				for _, p := range stats.TopPages {
					fmt.Fprintf(w, `<tr><td>%s</td><td>%d</td></tr>`, esc(p.Path), p.Views)
				}
				fmt.Fprint(w, `</tbody></table>`)
			}
			if len(stats.ReferrerStats) > 0 {
				fmt.Fprint(w, `<h2>Referrers</h2><ul>`)
				for _, r := range stats.ReferrerStats {
					fmt.Fprintf(w, `<li>%s (%d)</li>`, esc(r.Name), r.Count)
				}
				fmt.Fprint(w, `</ul>`)
			}

			fmt.Fprintf(w, `<form method="post" action="/admin/reload/">`+
				`<input type="hidden" name="_csrf" value="%s">`+
				`<button type="submit">Reload content</button></form>`, esc(csrfToken))
			fmt.Fprintf(w, `<form method="post" action="/admin/logout/">`+
				`<input type="hidden" name="_csrf" value="%s">`+
				`<button type="submit">Log out</button></form>`, esc(csrfToken))
			fmt.Fprint(w, `</section>`)
			return nil
		})
	})
}

func (v *viewSet) notFound() templ.Component {
	return v.statusPage("404", "This page does not exist.")
}

func (v *viewSet) serverError() templ.Component {
	return v.statusPage("500", "Something went wrong. Try again later.")
}

func (v *viewSet) statusPage(code, text string) templ.Component {
	return component(func(w io.Writer) error {
		meta := inkwell.PageMeta{Title: code + " · " + v.cfg.Name, URL: inkwell.BuildURL(v.cfg.URL)}
		return v.layout(w, meta, "", false, func(w io.Writer) error {
			fmt.Fprintf(w, `<section class="status-page"><h1>%s</h1><p>%s</p><p><a href="/">Back home</a></p></section>`,
				esc(code), esc(text))
			return nil
		})
	})
}
