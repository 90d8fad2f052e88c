// Package sitemap builds sitemap documents for gin applications from their route
// table, static asset directories and user-registered sources.
//
// A SiteMap is configured once by New and then either attached to the application,
// serving GET /sitemap.xml, or asked to Generate files into a directory. Every pass
// re-reads the route table, walks the static directories and runs the sources again;
// nothing is cached between passes.
package sitemap

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/romangod6/gin-sitemap/internal/logging"
)

// RouteInfo is the routing metadata the introspector needs from a route entry.
type RouteInfo struct {
	Path         string
	Methods      []string
	Dependencies []string // names of the callables run before the handler
}

// Describer is implemented by route table entries that can report their metadata.
// Entries that do not implement it, or that return false, are not sitemap candidates.
type Describer interface {
	Describe() (RouteInfo, bool)
}

// Application is the host application a SiteMap reads routes from and mounts onto.
type Application interface {
	// Routes returns a snapshot of the route table. Entries may be of any type.
	Routes() []any
	// Mount registers a handler that is not itself part of the describable route table.
	Mount(method, path string, handler gin.HandlerFunc) error
}

// Options configures a SiteMap. It is copied by New.
type Options struct {
	BaseURL         string   // absolute http(s) URL every location is built from
	StaticDirs      []string // directories scanned recursively for files
	StaticPrefix    string   // URL path prefix for static files, e.g. "/static"
	Gzip            bool
	ExcludeDeps     []string // routes depending on any of these names are skipped
	ExcludePatterns []string // regexes matched against raw route paths
	IncludeDynamic  bool     // keep routes with path parameters
	RespectNoindex  bool     // skip static HTML pages whose robots meta says noindex
	Logger          logrus.FieldLogger
}

// SiteMap aggregates URL entries for one application.
type SiteMap struct {
	app             Application
	baseURL         string
	staticDirs      []string
	staticPrefix    string
	gzip            bool
	excludeDeps     map[string]struct{}
	excludePatterns []*regexp.Regexp
	includeDynamic  bool
	respectNoindex  bool
	sources         *Registry
	log             logrus.FieldLogger
}

// New validates opts and returns a SiteMap bound to app.
func New(app Application, opts Options) (*SiteMap, error) {
	if app == nil {
		return nil, ErrMissingApp
	}
	baseURL, err := normalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	patterns, err := compilePatterns(opts.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	excludeDeps := make(map[string]struct{}, len(opts.ExcludeDeps))
	for _, name := range opts.ExcludeDeps {
		excludeDeps[name] = struct{}{}
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &SiteMap{
		app:             app,
		baseURL:         baseURL,
		staticDirs:      append([]string(nil), opts.StaticDirs...),
		staticPrefix:    normalizePrefix(opts.StaticPrefix),
		gzip:            opts.Gzip,
		excludeDeps:     excludeDeps,
		excludePatterns: patterns,
		includeDynamic:  opts.IncludeDynamic,
		respectNoindex:  opts.RespectNoindex,
		sources:         NewRegistry(),
		log:             log.WithField("component", "sitemap"),
	}, nil
}

// BaseURL returns the normalized base URL, without a trailing slash.
func (s *SiteMap) BaseURL() string { return s.baseURL }

// Gzip reports whether compressed output is enabled.
func (s *SiteMap) Gzip() bool { return s.gzip }

// Sources exposes the source registry.
func (s *SiteMap) Sources() *Registry { return s.sources }

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

// compilePatterns compiles exclude regexes, skipping empty strings.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for i, pattern := range patterns {
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w #%d (%q): %v", ErrInvalidPattern, i+1, pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// joinURL appends path to base without doubling the separating slash.
func joinURL(base, path string) string {
	if path == "" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
