package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const postFileExtension = ".md"

// findPostFiles lists the markdown files directly inside dir.
func findPostFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var postFiles []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != postFileExtension {
			continue
		}
		postFiles = append(postFiles, filepath.Join(dir, e.Name()))
	}
	sort.Strings(postFiles)
	return postFiles, nil
}

func readPostFromFile(path string) (*post, error) {
	fileContent, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading post %v: %w", path, err)
	}
	return parsePost(path, string(fileContent)), nil
}

// parsePost splits a post into its positional header lines and body. The
// title is on the first line, the date on the second, and an optional
// cross-post link on the third.
func parsePost(path, content string) *post {
	fileBaseName := filepath.Base(path)
	id := strings.TrimSuffix(fileBaseName, filepath.Ext(fileBaseName))

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	next := func() string {
		if len(lines) == 0 {
			return ""
		}
		l := lines[0]
		lines = lines[1:]
		return l
	}

	p := &post{
		ID:    id,
		Path:  path,
		Title: stripHeadingMarker(next()),
		Date:  next(),
		Flags: flagsByID[id],
	}

	if len(lines) > 0 {
		if cp, ok := parseCrossPost(lines[0]); ok {
			p.CrossPost = cp
			lines = lines[1:]
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	p.Body = []byte(strings.Join(lines, "\n"))

	return p
}

func stripHeadingMarker(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}
