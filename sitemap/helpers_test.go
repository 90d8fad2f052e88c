package sitemap

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRoute struct {
	info RouteInfo
	ok   bool
}

func (r fakeRoute) Describe() (RouteInfo, bool) { return r.info, r.ok }

func route(path string, methods []string, deps ...string) fakeRoute {
	return fakeRoute{info: RouteInfo{Path: path, Methods: methods, Dependencies: deps}, ok: true}
}

func get(path string, deps ...string) fakeRoute {
	return route(path, []string{"GET"}, deps...)
}

type fakeApp struct {
	routes  []any
	mounted map[string]gin.HandlerFunc
}

func newFakeApp(routes ...any) *fakeApp {
	return &fakeApp{routes: routes, mounted: make(map[string]gin.HandlerFunc)}
}

func (a *fakeApp) Routes() []any { return append([]any(nil), a.routes...) }

func (a *fakeApp) Mount(method, path string, handler gin.HandlerFunc) error {
	key := method + " " + path
	if _, exists := a.mounted[key]; exists {
		return fmt.Errorf("%s already mounted", key)
	}
	a.mounted[key] = handler
	return nil
}

func newTestSiteMap(t *testing.T, app Application, opts Options) *SiteMap {
	t.Helper()
	if opts.BaseURL == "" {
		opts.BaseURL = "https://example.com"
	}
	sm, err := New(app, opts)
	require.NoError(t, err)
	return sm
}

func locs(urls []URLInfo) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		out = append(out, u.Loc())
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
