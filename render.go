package main

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed tmpl/*.html
var templateFS embed.FS

type templateParam struct {
	*SiteConf
	PageTitle string
	// og:image URL, empty for pages without a cover image.
	Thumbnail string
	Container string
}

type postTemplateParam struct {
	templateParam
	*post
	RenderedBody template.HTML
	CoverImage   string
}

type postListTemplateParam struct {
	templateParam
	Entries []indexEntry
}

type renderer interface {
	render(in []byte) (string, error)
}

type templateEngine struct {
	toHtml        renderer
	templateCache map[string]*template.Template
}

func newTemplateEngine(r renderer) templateEngine {
	return templateEngine{
		toHtml:        r,
		templateCache: make(map[string]*template.Template),
	}
}

// renderPost writes the post page to w and returns the rendered body.
func (te *templateEngine) renderPost(tp templateParam, p *post, coverImage string, w io.Writer) (string, error) {
	body, err := te.toHtml.render(p.Body)
	if err != nil {
		return "", fmt.Errorf("error rendering markdown of %v: %w", p.Path, err)
	}

	renderedBody := template.HTML(body)
	pp := postTemplateParam{
		templateParam: tp,
		post:          p,
		RenderedBody:  renderedBody,
		CoverImage:    coverImage,
	}

	t, err := te.getTemplate("post.html")
	if err != nil {
		return "", err
	}
	return body, t.Execute(w, pp)
}

func (te *templateEngine) renderPostList(tp templateParam, entries []indexEntry, w io.Writer) error {
	p := postListTemplateParam{
		templateParam: tp,
		Entries:       entries,
	}
	t, err := te.getTemplate("list.html")
	if err != nil {
		return err
	}
	return t.Execute(w, p)
}

func (te *templateEngine) getTemplate(filename string) (*template.Template, error) {
	t, ok := te.templateCache[filename]
	if !ok {
		var err error
		t, err = template.ParseFS(templateFS, "tmpl/global.html", "tmpl/"+filename)
		if err != nil {
			return nil, err
		}
		te.templateCache[filename] = t
	}
	return t, nil
}
