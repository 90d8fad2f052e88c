package sitemap

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/romangod6/gin-sitemap/internal/pagemeta"
)

// staticURLs walks every configured static directory and yields one entry per
// regular file. Missing directories are skipped; other filesystem failures end the
// sequence with an ErrFilesystem error.
func (s *SiteMap) staticURLs() iter.Seq2[URLInfo, error] {
	return func(yield func(URLInfo, error) bool) {
		for _, dir := range s.staticDirs {
			info, err := os.Stat(dir)
			if errors.Is(err, fs.ErrNotExist) {
				s.log.Debugf("Static directory %s does not exist, skipping", dir)
				continue
			}
			if err != nil {
				yield(URLInfo{}, fmt.Errorf("%w: %w", ErrFilesystem, err))
				return
			}
			if !info.IsDir() {
				yield(URLInfo{}, fmt.Errorf("%w: %s is not a directory", ErrFilesystem, dir))
				return
			}

			stopped := false
			walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.Type().IsRegular() {
					return nil
				}
				if s.respectNoindex && isHTMLFile(path) {
					meta, err := pagemeta.ParseFile(path)
					if err != nil {
						return err
					}
					if meta.NoIndex() {
						s.log.Debugf("Skipping %s: robots noindex", path)
						return nil
					}
				}
				rel, err := filepath.Rel(dir, path)
				if err != nil {
					return err
				}
				if !yield(NewURLInfo(s.staticLoc(rel)), nil) {
					stopped = true
					return filepath.SkipAll
				}
				return nil
			})
			if stopped {
				return
			}
			if walkErr != nil {
				yield(URLInfo{}, fmt.Errorf("%w: walk %s: %w", ErrFilesystem, dir, walkErr))
				return
			}
		}
	}
}

// staticLoc maps a path relative to a static root onto an absolute URL.
func (s *SiteMap) staticLoc(rel string) string {
	segments := strings.Split(filepath.ToSlash(rel), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return joinURL(s.baseURL, s.staticPrefix+"/"+strings.Join(segments, "/"))
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
