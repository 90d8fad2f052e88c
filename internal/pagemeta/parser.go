// Package pagemeta reads the few <head> directives that decide whether a static
// HTML page belongs in a sitemap.
package pagemeta

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PageMeta holds what was found in an HTML document's head.
type PageMeta struct {
	Robots []string // lower-cased directives from <meta name="robots">
}

// NoIndex reports whether the robots directives forbid indexing.
func (m *PageMeta) NoIndex() bool {
	for _, d := range m.Robots {
		if d == "noindex" || d == "none" {
			return true
		}
	}
	return false
}

// Parse extracts page metadata from an HTML document.
func Parse(r io.Reader) (*PageMeta, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	meta := &PageMeta{}

	doc.Find("meta[name]").Each(func(i int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if !strings.EqualFold(name, "robots") {
			return
		}
		content, exists := s.Attr("content")
		if !exists {
			return
		}
		for _, directive := range strings.Split(content, ",") {
			directive = strings.ToLower(strings.TrimSpace(directive))
			if directive != "" {
				meta.Robots = append(meta.Robots, directive)
			}
		}
	})

	return meta, nil
}

// ParseFile opens path and parses it as HTML.
func ParseFile(path string) (*PageMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}
