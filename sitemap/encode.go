package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/romangod6/gin-sitemap/internal/models"
)

// Document is one rendered sitemap. Gzip is nil unless compression is enabled.
type Document struct {
	XML  []byte
	Gzip []byte
}

// Encode writes urls as a sitemap <urlset> document.
func Encode(w io.Writer, urls []URLInfo) error {
	set := models.URLSet{
		Xmlns: models.Namespace,
		URLs:  make([]models.URL, 0, len(urls)),
	}
	for _, u := range urls {
		entry := models.URL{
			Loc:        u.loc,
			LastMod:    u.lastmod,
			ChangeFreq: string(u.changefreq),
		}
		if u.hasPriority {
			entry.Priority = formatPriority(u.priority)
		}
		set.URLs = append(set.URLs, entry)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Render returns the encoded document for urls.
func Render(urls []URLInfo) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, urls); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compress gzips data. The header carries no name or timestamp, so equal input
// always compresses to equal bytes.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("gzip sitemap: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip sitemap: %w", err)
	}
	return buf.Bytes(), nil
}

// Document runs a collection pass and renders it.
func (s *SiteMap) Document(ctx context.Context) (*Document, error) {
	urls, err := s.URLs(ctx)
	if err != nil {
		return nil, err
	}
	data, err := Render(urls)
	if err != nil {
		return nil, err
	}
	doc := &Document{XML: data}
	if s.gzip {
		if doc.Gzip, err = Compress(data); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// formatPriority renders p in its shortest form, keeping one fractional digit: 0.8, 1.0.
func formatPriority(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
