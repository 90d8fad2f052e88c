// Package router wraps a gin engine so that every route is recorded together with
// its methods and named dependencies, which gin itself does not expose.
package router

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/romangod6/gin-sitemap/sitemap"
)

var (
	ErrRouteExists   = errors.New("router: route already registered")
	ErrRouteConflict = errors.New("router: route rejected by gin")
)

// Dependency is a named handler run before a route's own handler, typically
// authentication or request-scoped setup.
type Dependency struct {
	Name    string
	Handler gin.HandlerFunc
}

// Depends names a dependency after its function, e.g. "requireAuth".
func Depends(h gin.HandlerFunc) Dependency {
	return Dependency{Name: FuncName(h), Handler: h}
}

// Named builds a dependency with an explicit name.
func Named(name string, h gin.HandlerFunc) Dependency {
	return Dependency{Name: name, Handler: h}
}

// FuncName returns the unqualified name of a function value.
func FuncName(f any) string {
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	name := runtime.FuncForPC(v.Pointer()).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

// Route is a structured route table entry.
type Route struct {
	path    string
	methods []string
	deps    []Dependency
}

func (r *Route) Path() string { return r.path }

func (r *Route) Methods() []string {
	return append([]string(nil), r.methods...)
}

// Dependencies returns the dependency names in the order they run.
func (r *Route) Dependencies() []string {
	names := make([]string, 0, len(r.deps))
	for _, d := range r.deps {
		names = append(names, d.Name)
	}
	return names
}

// Describe implements sitemap.Describer.
func (r *Route) Describe() (sitemap.RouteInfo, bool) {
	return sitemap.RouteInfo{
		Path:         r.path,
		Methods:      r.Methods(),
		Dependencies: r.Dependencies(),
	}, true
}

// Mounted is the table entry for a handler added with Mount. It deliberately
// carries no route metadata, so introspection skips it.
type Mounted struct {
	Method string
	Path   string
}

// App is a gin engine plus the route table built through it.
type App struct {
	engine *gin.Engine

	mu         sync.RWMutex
	entries    []any
	registered map[string]struct{}
}

// New returns an App on a fresh engine with panic recovery.
func New() *App {
	engine := gin.New()
	engine.Use(gin.Recovery())
	return Wrap(engine)
}

// Wrap records routes registered through the returned App onto engine. Routes added
// to engine directly are served but not part of the App's route table.
func Wrap(engine *gin.Engine) *App {
	return &App{
		engine:     engine,
		registered: make(map[string]struct{}),
	}
}

func (a *App) Engine() *gin.Engine { return a.engine }

func (a *App) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	a.engine.ServeHTTP(w, req)
}

// Routes returns a snapshot of the route table.
func (a *App) Routes() []any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]any(nil), a.entries...)
}

// AddRoute appends an arbitrary entry to the route table without serving it.
func (a *App) AddRoute(entry any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

// Handle registers handler for every method in methods, preceded by the handlers of
// deps, and records one Route for it. Nothing is registered when any method is
// already taken. If gin rejects a later method, the methods it already accepted stay
// served and are recorded as a Route with just those methods.
func (a *App) Handle(methods []string, relativePath string, handler gin.HandlerFunc, deps ...Dependency) (*Route, error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: %s has no methods", ErrRouteConflict, relativePath)
	}
	chain := make([]gin.HandlerFunc, 0, len(deps)+1)
	for _, d := range deps {
		if d.Handler != nil {
			chain = append(chain, d.Handler)
		}
	}
	if handler != nil {
		chain = append(chain, handler)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: %s has no handlers", ErrRouteConflict, relativePath)
	}

	normalized := make([]string, 0, len(methods))
	seen := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(m)
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		normalized = append(normalized, m)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, m := range normalized {
		key := m + " " + relativePath
		if _, exists := a.registered[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrRouteExists, key)
		}
	}

	route := &Route{
		path: relativePath,
		deps: append([]Dependency(nil), deps...),
	}
	for _, m := range normalized {
		if err := a.registerLocked(m, relativePath, chain); err != nil {
			if len(route.methods) > 0 {
				a.entries = append(a.entries, route)
			}
			return nil, err
		}
		route.methods = append(route.methods, m)
	}
	a.entries = append(a.entries, route)
	return route, nil
}

// Mount serves handler at method and path and records a Mounted entry.
func (a *App) Mount(method, relativePath string, handler gin.HandlerFunc) error {
	method = strings.ToUpper(method)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.registerLocked(method, relativePath, []gin.HandlerFunc{handler}); err != nil {
		return err
	}
	a.entries = append(a.entries, &Mounted{Method: method, Path: relativePath})
	return nil
}

func (a *App) registerLocked(method, relativePath string, chain []gin.HandlerFunc) (err error) {
	key := method + " " + relativePath
	if _, exists := a.registered[key]; exists {
		return fmt.Errorf("%w: %s", ErrRouteExists, key)
	}
	if len(chain) == 0 {
		return fmt.Errorf("%w: %s has no handlers", ErrRouteConflict, key)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrRouteConflict, key, r)
		}
	}()
	a.engine.Handle(method, relativePath, chain...)
	a.registered[key] = struct{}{}
	return nil
}

func (a *App) GET(relativePath string, handler gin.HandlerFunc, deps ...Dependency) *Route {
	return a.mustHandle(http.MethodGet, relativePath, handler, deps)
}

func (a *App) POST(relativePath string, handler gin.HandlerFunc, deps ...Dependency) *Route {
	return a.mustHandle(http.MethodPost, relativePath, handler, deps)
}

func (a *App) PUT(relativePath string, handler gin.HandlerFunc, deps ...Dependency) *Route {
	return a.mustHandle(http.MethodPut, relativePath, handler, deps)
}

func (a *App) DELETE(relativePath string, handler gin.HandlerFunc, deps ...Dependency) *Route {
	return a.mustHandle(http.MethodDelete, relativePath, handler, deps)
}

// mustHandle panics on registration errors, as gin does.
func (a *App) mustHandle(method, relativePath string, handler gin.HandlerFunc, deps []Dependency) *Route {
	route, err := a.Handle([]string{method}, relativePath, handler, deps...)
	if err != nil {
		panic(err)
	}
	return route
}

// Group returns a route group whose routes share prefix and deps.
func (a *App) Group(prefix string, deps ...Dependency) *Group {
	return &Group{app: a, prefix: joinPaths("/", prefix), deps: deps}
}

// Group registers routes under a common prefix with common dependencies.
type Group struct {
	app    *App
	prefix string
	deps   []Dependency
}

func (g *Group) Group(prefix string, deps ...Dependency) *Group {
	return &Group{
		app:    g.app,
		prefix: joinPaths(g.prefix, prefix),
		deps:   append(append([]Dependency(nil), g.deps...), deps...),
	}
}

func (g *Group) Handle(methods []string, relativePath string, handler gin.HandlerFunc, deps ...Dependency) (*Route, error) {
	all := append(append([]Dependency(nil), g.deps...), deps...)
	return g.app.Handle(methods, joinPaths(g.prefix, relativePath), handler, all...)
}

func (g *Group) GET(relativePath string, handler gin.HandlerFunc, deps ...Dependency) *Route {
	return g.mustHandle(http.MethodGet, relativePath, handler, deps)
}

func (g *Group) POST(relativePath string, handler gin.HandlerFunc, deps ...Dependency) *Route {
	return g.mustHandle(http.MethodPost, relativePath, handler, deps)
}

func (g *Group) mustHandle(method, relativePath string, handler gin.HandlerFunc, deps []Dependency) *Route {
	route, err := g.Handle([]string{method}, relativePath, handler, deps...)
	if err != nil {
		panic(err)
	}
	return route
}

// joinPaths joins like gin's route groups do, keeping a trailing slash on relative.
func joinPaths(absolute, relative string) string {
	if relative == "" {
		return absolute
	}
	final := path.Join(absolute, relative)
	if strings.HasSuffix(relative, "/") && !strings.HasSuffix(final, "/") {
		return final + "/"
	}
	return final
}
