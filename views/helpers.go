package views

import (
	"fmt"
	"html"
	"io"

	"github.com/okvist/inkwell"
)

// mathJaxScript loads MathJax from the CDN for posts with useLatex set.
const mathJaxScript = `<script id="MathJax-script" async src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js"></script>`

func esc(s string) string {
	return html.EscapeString(s)
}

// layout writes the shared page shell: head with SEO/OpenGraph metadata,
// optional JSON-LD and MathJax, site navigation, body, footer.
func (v *viewSet) layout(w io.Writer, meta inkwell.PageMeta, jsonLD string, useLatex bool, body func(w io.Writer) error) error {
	fmt.Fprint(w, "<!DOCTYPE html><html lang=\"en\"><head>")
	fmt.Fprint(w, `<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	fmt.Fprintf(w, `<title>%s</title>`, esc(meta.Title))
	if meta.Description != "" {
		fmt.Fprintf(w, `<meta name="description" content="%s">`, esc(meta.Description))
	}
	if meta.URL != "" {
		fmt.Fprintf(w, `<link rel="canonical" href="%s">`, esc(meta.URL))
		fmt.Fprintf(w, `<meta property="og:url" content="%s">`, esc(meta.URL))
	}
	fmt.Fprintf(w, `<meta property="og:title" content="%s">`, esc(meta.Title))
	if meta.Description != "" {
		fmt.Fprintf(w, `<meta property="og:description" content="%s">`, esc(meta.Description))
	}
	ogType := meta.OGType
	if ogType == "" {
		ogType = "website"
	}
	fmt.Fprintf(w, `<meta property="og:type" content="%s">`, esc(ogType))
	fmt.Fprintf(w, `<link rel="alternate" type="application/rss+xml" title="%s" href="/feed.xml">`, esc(v.cfg.Name))
	fmt.Fprint(w, `<link rel="stylesheet" href="/public/site.css">`)
	if jsonLD != "" {
		fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, jsonLD)
	}
	if useLatex {
		fmt.Fprint(w, mathJaxScript)
	}
	fmt.Fprint(w, "</head><body>")

	fmt.Fprintf(w, `<nav class="site-nav"><a href="/">%s</a><a href="/feed.xml">RSS</a></nav>`, esc(v.cfg.Name))
	fmt.Fprint(w, `<main>`)
	if err := body(w); err != nil {
		return err
	}
	fmt.Fprint(w, `</main>`)

	fmt.Fprintf(w, `<footer><p>&copy; %s</p></footer>`, esc(v.cfg.Author))
	fmt.Fprint(w, "</body></html>")
	return nil
}

// writePostCard renders one entry of the index listing.
func writePostCard(w io.Writer, p inkwell.Post) {
	fmt.Fprintf(w, `<article class="post-card"><h2><a href="/blog/%s/">%s</a></h2>`,
		inkwell.PathEscape(p.Slug), esc(p.Title))
	fmt.Fprint(w, `<p class="post-meta">`)
	if !p.DateCreated.IsZero() {
		fmt.Fprintf(w, `<time datetime="%s">%s</time> · `,
			p.DateCreated.Format("2006-01-02"), p.DateCreated.Format("January 2, 2006"))
	}
	fmt.Fprintf(w, `%d min read</p>`, p.ReadTime)
	if p.Intro != "" {
		fmt.Fprintf(w, `<p>%s</p>`, esc(p.Intro))
	}
	fmt.Fprint(w, `</article>`)
}

func writeCategoryLink(w io.Writer, label, href string, active bool) {
	class := "category"
	if active {
		class = "category active"
	}
	fmt.Fprintf(w, `<a class="%s" href="%s">%s</a>`, class, href, esc(label))
}
