// Package markdown converts markdown source into HTML through a fixed
// goldmark pipeline and exposes the result as a templ component.
//
// The pipeline is sequential and has no branching: parse, GFM extensions,
// math expressions, syntax highlighting for fenced code blocks, figure
// wrapping for images, raw HTML passthrough, serialize. Malformed markdown is
// rendered best-effort; the parser itself never fails on text input.
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // tables, strikethrough, autolinks, task lists
		mathjax.MathJax,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // inline raw HTML fragments pass through unchanged
		renderer.WithNodeRenderers(
			util.Prioritized(newFigureRenderer(), 500),
		),
	),
)

// ToHTML converts markdown source into HTML.
func ToHTML(source string) (string, error) {
	out, err := Convert([]byte(source))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Convert renders markdown bytes into HTML bytes.
func Convert(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := ToHTML(content)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// figureRenderer replaces the default image rendering so that every image is
// wrapped in a <figure> element with the alt text repeated as a caption.
type figureRenderer struct {
	html.Config
}

func newFigureRenderer() renderer.NodeRenderer {
	return &figureRenderer{Config: html.NewConfig()}
}

func (r *figureRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gmast.KindImage, r.renderImage)
}

func (r *figureRenderer) renderImage(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*gmast.Image)

	alt := imageAlt(n, source)

	_, _ = w.WriteString(`<figure><img src="`)
	if r.Unsafe || !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML(alt))
	_, _ = w.WriteString(`"`)
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(` decoding="async">`)
	if len(alt) > 0 {
		_, _ = w.WriteString(`<figcaption>`)
		_, _ = w.Write(util.EscapeHTML(alt))
		_, _ = w.WriteString(`</figcaption>`)
	}
	_, _ = w.WriteString(`</figure>`)
	return gmast.WalkSkipChildren, nil
}

// imageAlt collects the plain text of an image node's children.
func imageAlt(n gmast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.Bytes()
}
