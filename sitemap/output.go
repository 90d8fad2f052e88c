package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const (
	FileName     = "sitemap.xml"
	GzipFileName = "sitemap.xml.gz"
	EndpointPath = "/sitemap.xml"

	ContentTypeXML  = "application/xml; charset=utf-8"
	ContentTypeGzip = "application/gzip"
)

// Attach mounts GET /sitemap.xml on the application. The document is rebuilt on
// every request.
func (s *SiteMap) Attach() error {
	if err := s.app.Mount(http.MethodGet, EndpointPath, s.Handler()); err != nil {
		return fmt.Errorf("attach sitemap: %w", err)
	}
	s.log.Infof("Serving sitemap at %s", EndpointPath)
	return nil
}

// Handler serves the current sitemap, gzipped when compression is enabled.
func (s *SiteMap) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := s.Document(c.Request.Context())
		if err != nil {
			s.log.Errorf("Failed to build sitemap: %v", err)
			c.String(http.StatusInternalServerError, "failed to build sitemap")
			return
		}
		if s.gzip {
			c.Data(http.StatusOK, ContentTypeGzip, doc.Gzip)
			return
		}
		c.Data(http.StatusOK, ContentTypeXML, doc.XML)
	}
}

// Generate writes sitemap.xml, and sitemap.xml.gz when compression is enabled,
// into outDir, which must already exist. It returns the paths written.
func (s *SiteMap) Generate(ctx context.Context, outDir string) ([]string, error) {
	info, err := os.Stat(outDir)
	if err != nil {
		return nil, fmt.Errorf("%w: output directory: %w", ErrFilesystem, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: output path %s is not a directory", ErrFilesystem, outDir)
	}

	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}

	type output struct {
		name string
		data []byte
	}
	outputs := []output{{FileName, doc.XML}}
	if s.gzip {
		outputs = append(outputs, output{GzipFileName, doc.Gzip})
	}

	written := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(outDir, out.name)
		if err := os.WriteFile(path, out.data, 0644); err != nil {
			return written, fmt.Errorf("%w: write %s: %w", ErrFilesystem, path, err)
		}
		s.log.Infof("Wrote %s (%d bytes)", path, len(out.data))
		written = append(written, path)
	}
	return written, nil
}
