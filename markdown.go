package main

import (
	"bytes"
	"fmt"

	"github.com/russross/blackfriday/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

func newMarkdownRenderer(engine string) (renderer, error) {
	switch engine {
	case engineGoldmark, "":
		return newGoldmarkRenderer(), nil
	case engineBlackfriday:
		return newBlackfridayRenderer(), nil
	}
	return nil, fmt.Errorf("unknown markdown engine %q", engine)
}

type goldmarkHtmlRenderer struct {
	md goldmark.Markdown
}

// CommonMark with strikethrough. Raw HTML in posts is kept.
func newGoldmarkRenderer() renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &goldmarkHtmlRenderer{md}
}

func (g *goldmarkHtmlRenderer) render(in []byte) (string, error) {
	var b bytes.Buffer
	if err := g.md.Convert(in, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

var htmlFlags blackfriday.HTMLFlags
var extensions blackfriday.Extensions

func init() {
	htmlFlags |= blackfriday.UseXHTML
	htmlFlags |= blackfriday.Smartypants
	htmlFlags |= blackfriday.SmartypantsFractions
	htmlFlags |= blackfriday.SmartypantsLatexDashes

	extensions |= blackfriday.NoIntraEmphasis
	extensions |= blackfriday.Tables
	extensions |= blackfriday.FencedCode
	extensions |= blackfriday.Autolink
	extensions |= blackfriday.Strikethrough
}

type blackfridayHtmlRenderer struct {
	params     blackfriday.HTMLRendererParameters
	extensions blackfriday.Extensions
}

func newBlackfridayRenderer() renderer {
	params := blackfriday.HTMLRendererParameters{Flags: htmlFlags}
	return &blackfridayHtmlRenderer{params, extensions}
}

// The HTML renderer keeps per-document state, so each post gets a fresh one.
func (b *blackfridayHtmlRenderer) render(in []byte) (string, error) {
	r := blackfriday.NewHTMLRenderer(b.params)
	out := blackfriday.Run(in, blackfriday.WithRenderer(r), blackfriday.WithExtensions(b.extensions))
	return string(out), nil
}
