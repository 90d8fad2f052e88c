package router

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var ErrUnknownApp = errors.New("router: unknown application")

// Factory builds a fresh application.
type Factory func() (*App, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes an application available by name to the CLI. It is meant to be
// called from an init function and panics if name is taken or factory is nil.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if factory == nil {
		panic("router: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("router: Register called twice for application " + name)
	}
	factories[name] = factory
}

// Registered returns the sorted names of registered applications.
func Registered() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve finds the application called target: a registered name first, then a
// route manifest file (.yaml, .yml or .json).
func Resolve(target string) (*App, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownApp)
	}

	factoriesMu.RLock()
	factory, ok := factories[target]
	factoriesMu.RUnlock()
	if ok {
		app, err := factory()
		if err != nil {
			return nil, fmt.Errorf("build application %s: %w", target, err)
		}
		return app, nil
	}

	if isManifestPath(target) {
		if _, err := os.Stat(target); err == nil {
			return LoadManifest(target)
		}
	}
	return nil, fmt.Errorf("%w: %q is neither registered (%s) nor a manifest file",
		ErrUnknownApp, target, strings.Join(Registered(), ", "))
}

func isManifestPath(target string) bool {
	switch strings.ToLower(filepath.Ext(target)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
