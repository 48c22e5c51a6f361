package main

import (
	"net/url"
	"slices"
	"strings"
	"time"

	stripmd "github.com/writeas/go-strip-markdown"
)

const (
	// Post dates are written as MM-DD-YYYY on the second line.
	dateStampFormat = "01-02-2006"

	wordsPerMinute = 200
)

const (
	// A page that is rendered but never listed, such as the about page.
	flagStatic = "static"
	// A page that is listed only in non-production builds.
	flagDraft = "draft"
)

// Flags for posts identified by their file name. Everything else is a
// regular post.
var flagsByID = map[string][]string{
	"about":      {flagStatic},
	"newsletter": {flagStatic},
	"404":        {flagStatic},
	"example":    {flagDraft},
}

// Unparsable dates sort as if the post was written at the epoch.
var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

type crossPost struct {
	Url  string
	Site string
}

type post struct {
	ID, Title string
	// Date is kept as written in the source file.
	Date      string
	Path      string
	CrossPost *crossPost
	Body      []byte
	Flags     []string
}

func (p *post) IsStatic() bool { return slices.Contains(p.Flags, flagStatic) }

func (p *post) IsDraft() bool { return slices.Contains(p.Flags, flagDraft) }

// Listed reports whether the post belongs on the index page and in the feed.
func (p *post) Listed(prod bool) bool {
	if p.IsStatic() {
		return false
	}
	return !prod || !p.IsDraft()
}

// PublishDate returns the parsed date, or the epoch if the date is not
// MM-DD-YYYY.
func (p *post) PublishDate() time.Time {
	d, _ := parseDate(p.Date)
	return d
}

// Called from templates
func (p *post) ReadingTime() int {
	return readingTime(p.Body)
}

func (p *post) blurb() string {
	text := strings.Join(strings.Fields(stripmd.Strip(string(p.Body))), " ")
	if r := []rune(text); len(r) > 200 {
		return string(r[:200]) + "..."
	}
	return text
}

func parseDate(s string) (time.Time, bool) {
	d, err := time.Parse(dateStampFormat, strings.TrimSpace(s))
	if err != nil {
		return epoch, false
	}
	return d, true
}

func readingTime(body []byte) int {
	words := len(strings.Fields(stripmd.Strip(string(body))))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

var crossPostMarkers = []string{"crosspost:", "cross-posted:"}

// parseCrossPost reports whether line starts with a cross-post marker. The
// returned link is nil when the marker is not followed by a URL.
func parseCrossPost(line string) (*crossPost, bool) {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)
	for _, marker := range crossPostMarkers {
		if !strings.HasPrefix(lower, marker) {
			continue
		}
		link := strings.TrimSpace(trimmed[len(marker):])
		if link == "" {
			return nil, true
		}
		cp := &crossPost{Url: link, Site: link}
		if u, err := url.Parse(link); err == nil && u.Host != "" {
			cp.Site = strings.TrimPrefix(u.Host, "www.")
		}
		return cp, true
	}
	return nil, false
}

type posts []*post

func (ps posts) Len() int      { return len(ps) }
func (ps posts) Swap(i, j int) { ps[i], ps[j] = ps[j], ps[i] }

// Less orders newest first. Posts with an unparsable date come after every
// post with a valid one, even one dated at the epoch.
func (ps posts) Less(i, j int) bool {
	di, okI := parseDate(ps[i].Date)
	dj, okJ := parseDate(ps[j].Date)
	if okI != okJ {
		return okI
	}
	return di.After(dj)
}

func (ps posts) listed(prod bool) posts {
	listed := make(posts, 0, len(ps))
	for _, p := range ps {
		if p.Listed(prod) {
			listed = append(listed, p)
		}
	}
	return listed
}

func (ps posts) latestDate() time.Time {
	t := epoch
	for _, p := range ps {
		if d := p.PublishDate(); d.After(t) {
			t = d
		}
	}
	return t
}
