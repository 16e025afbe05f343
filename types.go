package inkwell

import "github.com/okvist/inkwell/content"

// Post is a loaded content file: front-matter metadata plus the rendered HTML
// body. Posts are computed once at load time and immutable afterwards.
type Post = content.Post

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Image describes a processed image variant written during a static build.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	SizeBytes    int64
}
