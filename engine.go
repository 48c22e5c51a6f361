// Command mdblog is a static blog generator. It reads markdown posts from a
// data directory, renders one page per post and an index page sorted by
// date, and re-renders the whole site whenever the data directory changes.
//
// A post is a plain markdown file. The first line is the title, the second
// the date as MM-DD-YYYY, and an optional third line "crosspost: <url>"
// links to a copy published elsewhere. The rest is the body.
//
// A cover image is picked up from the images directory by file name: the
// post hello.md gets images/hello.png (or .jpg, .jpeg, .gif).
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/otiai10/copy"
)

const feedFileName = "index.xml"

var imageExtensions = []string{"jpg", "jpeg", "png", "gif"}

type Site struct {
	posts       posts
	conf        *SiteConf
	renderCache map[string]string
}

type indexEntry struct {
	Url, Title, Date string
}

// rebuild runs the whole pipeline: read the posts, clear the old output,
// render every post, the index and the feed.
func rebuild(conf *SiteConf) error {
	site, err := ReadSite(conf)
	if err != nil {
		return err
	}

	log.Println("Writing site to " + conf.WebpageDir)
	return site.RenderAll()
}

func ReadSite(conf *SiteConf) (*Site, error) {
	files, err := findPostFiles(conf.DataDir)
	if err != nil {
		return nil, err
	}

	thisSite := Site{
		posts:       make(posts, 0, len(files)),
		conf:        conf,
		renderCache: make(map[string]string),
	}

	for _, f := range files {
		p, err := readPostFromFile(f)
		if err != nil {
			return nil, err
		}
		thisSite.posts = append(thisSite.posts, p)
	}

	return &thisSite, nil
}

func (s *Site) RenderAll() error {
	if err := s.clearGeneratedFiles(); err != nil {
		return err
	}
	if err := s.RenderHtml(); err != nil {
		return err
	}
	return s.RenderAtom()
}

// clearGeneratedFiles removes the HTML pages and the feed of the previous
// build. Images are left in place.
func (s *Site) clearGeneratedFiles() error {
	log.Println("Clearing old files")
	if err := os.MkdirAll(s.conf.WebpageDir, os.FileMode(0775)); err != nil {
		return fmt.Errorf("error creating directory %v: %w", s.conf.WebpageDir, err)
	}

	entries, err := os.ReadDir(s.conf.WebpageDir)
	if err != nil {
		return err
	}
	files := []string{filepath.Join(s.conf.WebpageDir, feedFileName)}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".html" {
			files = append(files, filepath.Join(s.conf.WebpageDir, e.Name()))
		}
	}

	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error removing %v: %w", f, err)
		}
	}
	return nil
}

func (s *Site) RenderHtml() error {
	md, err := newMarkdownRenderer(s.conf.Markdown)
	if err != nil {
		return err
	}
	engine := newTemplateEngine(md)

	log.Printf("Rendering %d posts", len(s.posts))
	for _, p := range s.posts {
		if err := s.renderPostToFile(p, &engine); err != nil {
			return err
		}
	}

	return s.RenderIndex(&engine)
}

func (s *Site) renderPostToFile(p *post, engine *templateEngine) error {
	tp := templateParam{
		SiteConf:  s.conf,
		PageTitle: s.conf.SiteTitle,
		Container: "container",
	}

	var coverImage string
	imageName, err := s.copyCoverImage(p)
	if err != nil {
		return err
	}
	if imageName != "" {
		coverImage = "images/" + imageName
		tp.Thumbnail = s.conf.BaseUrl + "/images/" + imageName
	}

	var b bytes.Buffer
	renderedBody, err := engine.renderPost(tp, p, coverImage, &b)
	if err != nil {
		return fmt.Errorf("error rendering %v: %w", p.Path, err)
	}

	outHtmlName := filepath.Join(s.conf.WebpageDir, p.ID+".html")
	if err := os.WriteFile(outHtmlName, b.Bytes(), os.FileMode(0664)); err != nil {
		return fmt.Errorf("error writing %v: %w", outHtmlName, err)
	}

	s.renderCache[p.ID] = renderedBody
	return nil
}

// findCoverImage returns the path of the first image in the images
// directory named like the post, or "" if there is none.
func (s *Site) findCoverImage(p *post) (string, error) {
	for _, ext := range imageExtensions {
		imagePath := filepath.Join(s.conf.ImagesDir, p.ID+"."+ext)
		_, err := os.Stat(imagePath)
		if err == nil {
			return imagePath, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
	}
	return "", nil
}

// copyCoverImage copies the post's cover image into the output images
// directory unless a file of the same name is already there. It returns the
// image file name, or "" if the post has no cover image.
func (s *Site) copyCoverImage(p *post) (string, error) {
	imagePath, err := s.findCoverImage(p)
	if err != nil || imagePath == "" {
		return "", err
	}

	if err := os.MkdirAll(s.conf.ImagesOutDir, os.FileMode(0775)); err != nil {
		return "", fmt.Errorf("error creating directory %v: %w", s.conf.ImagesOutDir, err)
	}

	imageName := filepath.Base(imagePath)
	target := filepath.Join(s.conf.ImagesOutDir, imageName)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		log.Println("Copying ", imagePath, " to ", target)
		if err := copy.Copy(imagePath, target); err != nil {
			return "", fmt.Errorf("error copying image %v: %w", imagePath, err)
		}
	} else if err != nil {
		return "", err
	}

	return imageName, nil
}

func (s *Site) articleUrl(p *post) string {
	if s.conf.Prod {
		return "/" + p.ID + ".html"
	}
	return s.conf.BaseUrl + "/" + p.ID + ".html"
}

// listedPosts returns the posts for the index and the feed, newest first.
// Posts with the same date keep their file order.
func (s *Site) listedPosts() posts {
	listed := s.posts.listed(s.conf.Prod)
	sort.Stable(listed)
	return listed
}

func (s *Site) indexEntries() []indexEntry {
	listed := s.listedPosts()
	entries := make([]indexEntry, 0, len(listed))
	for _, p := range listed {
		entries = append(entries, indexEntry{
			Url:   s.articleUrl(p),
			Title: p.Title,
			Date:  p.Date,
		})
	}
	return entries
}

func (s *Site) RenderIndex(engine *templateEngine) error {
	log.Println("Creating index page")
	tp := templateParam{
		SiteConf:  s.conf,
		PageTitle: s.conf.SiteTitle,
		Container: "index-container",
	}

	var b bytes.Buffer
	if err := engine.renderPostList(tp, s.indexEntries(), &b); err != nil {
		return fmt.Errorf("error rendering index: %w", err)
	}

	outHtmlName := filepath.Join(s.conf.WebpageDir, "index.html")
	if err := os.WriteFile(outHtmlName, b.Bytes(), os.FileMode(0664)); err != nil {
		return fmt.Errorf("error writing %v: %w", outHtmlName, err)
	}
	return nil
}
