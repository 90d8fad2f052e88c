package sitemap

import (
	"iter"
	"net/http"
	"strings"
)

// routeURLs yields an entry for every eligible GET route in the application's table.
func (s *SiteMap) routeURLs() iter.Seq[URLInfo] {
	return func(yield func(URLInfo) bool) {
		for _, entry := range s.app.Routes() {
			d, ok := entry.(Describer)
			if !ok {
				continue
			}
			info, ok := d.Describe()
			if !ok {
				continue
			}
			if reason := s.skipReason(info); reason != "" {
				s.log.Debugf("Skipping route %s: %s", info.Path, reason)
				continue
			}
			if !yield(NewURLInfo(joinURL(s.baseURL, info.Path))) {
				return
			}
		}
	}
}

// skipReason returns why a route is excluded, or "" if it belongs in the sitemap.
func (s *SiteMap) skipReason(info RouteInfo) string {
	if !hasMethod(info.Methods, http.MethodGet) {
		return "no GET method"
	}
	for _, dep := range info.Dependencies {
		if _, excluded := s.excludeDeps[dep]; excluded {
			return "depends on " + dep
		}
	}
	for _, re := range s.excludePatterns {
		if re.MatchString(info.Path) {
			return "matches " + re.String()
		}
	}
	if !s.includeDynamic && IsDynamicPath(info.Path) {
		return "dynamic path"
	}
	return ""
}

func hasMethod(methods []string, want string) bool {
	for _, m := range methods {
		if strings.EqualFold(m, want) {
			return true
		}
	}
	return false
}

// IsDynamicPath reports whether path has a parameter segment: {id}, gin's :id or *rest.
func IsDynamicPath(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if seg[0] == ':' || seg[0] == '*' {
			return true
		}
		if open := strings.IndexByte(seg, '{'); open >= 0 && strings.IndexByte(seg[open:], '}') > 0 {
			return true
		}
	}
	return false
}
