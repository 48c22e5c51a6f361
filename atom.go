package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	atom "github.com/thomas11/atomgenerator"
)

// RenderAtom writes the feed of listed posts. An invalid feed is logged and
// skipped so that it never breaks the HTML build.
func (s *Site) RenderAtom() error {
	filePath := filepath.Join(s.conf.WebpageDir, feedFileName)
	atomXml, err := s.renderFeed(s.listedPosts())
	if err != nil {
		log.Println("Skipping Atom feed: " + err.Error())
		return nil
	}

	if err := os.WriteFile(filePath, atomXml, os.FileMode(0664)); err != nil {
		return fmt.Errorf("error writing %v: %w", filePath, err)
	}
	return nil
}

func (s *Site) renderFeed(ps posts) ([]byte, error) {
	feed := atom.Feed{
		Title:   s.conf.SiteTitle,
		Link:    s.conf.BaseUrl + "/",
		PubDate: ps.latestDate(),
	}
	feed.AddAuthor(atom.Author{
		Name: s.conf.Author,
		Uri:  s.conf.BaseUrl + "/",
	})

	for _, p := range ps {
		feed.AddEntry(s.entryForPost(p))
	}

	errs := feed.Validate()
	if len(errs) > 0 {
		log.Println("Atom feed is not valid!")
		for _, e := range errs {
			log.Println(e.Error())
		}
		return nil, errs[0]
	}

	return feed.GenXml()
}

func (s *Site) entryForPost(p *post) *atom.Entry {
	e := &atom.Entry{
		Title:       p.Title,
		Description: p.blurb(),
		Link:        s.absoluteUrl(s.articleUrl(p)),
		PubDate:     p.PublishDate(),
	}

	if renderedBody, ok := s.renderCache[p.ID]; ok {
		e.Content = renderedBody
	}

	return e
}

// Production article links are rooted at "/" and need the base URL in the
// feed.
func (s *Site) absoluteUrl(u string) string {
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, s.conf.BaseUrl) {
		return s.conf.BaseUrl + u
	}
	return u
}
