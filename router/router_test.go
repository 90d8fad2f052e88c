package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romangod6/gin-sitemap/sitemap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func requireAuth(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Set("user", "alice")
}

func whoami(c *gin.Context) {
	c.String(http.StatusOK, c.GetString("user"))
}

func serve(app *App, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestFuncName(t *testing.T) {
	assert.Equal(t, "requireAuth", FuncName(requireAuth))
	assert.Equal(t, "whoami", FuncName(gin.HandlerFunc(whoami)))
	assert.Equal(t, "", FuncName(nil))
	assert.Equal(t, "", FuncName("not a func"))
}

func TestHandle_RecordsRoute(t *testing.T) {
	app := New()
	route, err := app.Handle([]string{"get", "head"}, "/me", whoami, Depends(requireAuth))
	require.NoError(t, err)

	assert.Equal(t, "/me", route.Path())
	assert.Equal(t, []string{"GET", "HEAD"}, route.Methods())
	assert.Equal(t, []string{"requireAuth"}, route.Dependencies())

	info, ok := route.Describe()
	require.True(t, ok)
	assert.Equal(t, sitemap.RouteInfo{Path: "/me", Methods: []string{"GET", "HEAD"}, Dependencies: []string{"requireAuth"}}, info)

	routes := app.Routes()
	require.Len(t, routes, 1)
	assert.Same(t, route, routes[0])
}

func TestHandle_DependenciesRunFirst(t *testing.T) {
	app := New()
	app.GET("/me", whoami, Depends(requireAuth))

	w := serve(app, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(app, http.MethodGet, "/me", http.Header{"Authorization": {"Bearer x"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	app := New()
	app.GET("/users/:id", whoami)

	_, err := app.Handle([]string{http.MethodGet}, "/users/:id", whoami)
	assert.ErrorIs(t, err, ErrRouteExists)

	_, err = app.Handle([]string{http.MethodGet}, "/users/:name", whoami)
	assert.ErrorIs(t, err, ErrRouteConflict)

	_, err = app.Handle(nil, "/nothing", whoami)
	assert.ErrorIs(t, err, ErrRouteConflict)

	_, err = app.Handle([]string{http.MethodGet}, "/empty", nil)
	assert.ErrorIs(t, err, ErrRouteConflict)

	assert.Panics(t, func() { app.GET("/users/:id", whoami) })
	assert.Len(t, app.Routes(), 1)
}

func TestHandle_MultiMethodConflictRegistersNothing(t *testing.T) {
	app := New()
	app.POST("/form", whoami)

	_, err := app.Handle([]string{http.MethodGet, http.MethodPost}, "/form", whoami)
	assert.ErrorIs(t, err, ErrRouteExists)
	assert.Len(t, app.Routes(), 1)
	assert.Equal(t, http.StatusNotFound, serve(app, http.MethodGet, "/form", nil).Code)

	route, err := app.Handle([]string{http.MethodGet}, "/form", whoami)
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodGet}, route.Methods())
	assert.Len(t, app.Routes(), 2)
}

func TestHandle_PartialGinConflictIsRecorded(t *testing.T) {
	app := New()
	app.POST("/users/:id", whoami)

	_, err := app.Handle([]string{http.MethodGet, http.MethodPost}, "/users/:name", whoami)
	assert.ErrorIs(t, err, ErrRouteConflict)

	routes := app.Routes()
	require.Len(t, routes, 2)
	partial := routes[1].(*Route)
	assert.Equal(t, "/users/:name", partial.Path())
	assert.Equal(t, []string{http.MethodGet}, partial.Methods())
}

func TestHandle_DuplicateMethodsCollapse(t *testing.T) {
	app := New()
	route, err := app.Handle([]string{"get", "GET"}, "/twice", whoami)
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodGet}, route.Methods())
}

func TestMount_NotDescribable(t *testing.T) {
	app := New()
	app.GET("/", whoami)
	require.NoError(t, app.Mount("get", "/robots.txt", func(c *gin.Context) {
		c.String(http.StatusOK, "User-agent: *")
	}))

	routes := app.Routes()
	require.Len(t, routes, 2)
	mounted, ok := routes[1].(*Mounted)
	require.True(t, ok)
	assert.Equal(t, &Mounted{Method: http.MethodGet, Path: "/robots.txt"}, mounted)
	_, describable := routes[1].(sitemap.Describer)
	assert.False(t, describable)

	w := serve(app, http.MethodGet, "/robots.txt", nil)
	assert.Equal(t, "User-agent: *", w.Body.String())

	assert.ErrorIs(t, app.Mount(http.MethodGet, "/robots.txt", whoami), ErrRouteExists)
}

func TestAddRoute(t *testing.T) {
	app := New()
	app.AddRoute("raw entry")
	assert.Equal(t, []any{"raw entry"}, app.Routes())
}

func TestRoutes_Snapshot(t *testing.T) {
	app := New()
	app.GET("/", whoami)
	snapshot := app.Routes()
	app.GET("/later", whoami)
	assert.Len(t, snapshot, 1)
	assert.Len(t, app.Routes(), 2)
}

func TestWrap_UsesEngine(t *testing.T) {
	engine := gin.New()
	engine.GET("/direct", whoami)
	app := Wrap(engine)
	app.GET("/recorded", whoami)

	assert.Same(t, engine, app.Engine())
	assert.Len(t, app.Routes(), 1)
	assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/direct", nil).Code)
}

func TestGroup(t *testing.T) {
	app := New()
	v1 := app.Group("/api", Depends(requireAuth)).Group("v1")
	users := v1.GET("/users", whoami)
	v1.POST("/users", whoami, Named("audit", nil))
	_, err := v1.Handle([]string{"PUT"}, "/users/:id", whoami)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/users", users.Path())
	assert.Equal(t, []string{"requireAuth"}, users.Dependencies())

	routes := app.Routes()
	require.Len(t, routes, 3)
	post := routes[1].(*Route)
	assert.Equal(t, []string{"requireAuth", "audit"}, post.Dependencies())

	w := serve(app, http.MethodGet, "/api/v1/users", http.Header{"Authorization": {"x"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJoinPaths(t *testing.T) {
	tests := []struct {
		absolute, relative, expected string
	}{
		{"/", "", "/"},
		{"/", "api", "/api"},
		{"/api", "/v1", "/api/v1"},
		{"/api", "/v1/", "/api/v1/"},
		{"/api/", "users", "/api/users"},
	}
	for _, tt := range tests {
		t.Run(tt.absolute+"+"+tt.relative, func(t *testing.T) {
			assert.Equal(t, tt.expected, joinPaths(tt.absolute, tt.relative))
		})
	}
}
