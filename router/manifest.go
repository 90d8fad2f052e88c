package router

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

// Manifest describes the routes of an application that is analyzed rather than
// linked into the binary. JSON manifests parse as YAML.
type Manifest struct {
	Routes []ManifestRoute `yaml:"routes"`
}

type ManifestRoute struct {
	Path         string   `yaml:"path"`
	Methods      []string `yaml:"methods,omitempty"` // defaults to GET
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// LoadManifest reads a manifest file and builds an App from it.
func LoadManifest(path string) (*App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	app, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return app, nil
}

// ParseManifest builds an App whose routes answer 501 Not Implemented.
func ParseManifest(data []byte) (*App, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	app := New()
	for i, r := range m.Routes {
		if r.Path == "" {
			return nil, fmt.Errorf("route #%d: path is required", i+1)
		}
		methods := r.Methods
		if len(methods) == 0 {
			methods = []string{http.MethodGet}
		}
		deps := make([]Dependency, 0, len(r.Dependencies))
		for _, name := range r.Dependencies {
			deps = append(deps, Named(name, nil))
		}
		if _, err := app.Handle(methods, r.Path, notImplemented, deps...); err != nil {
			return nil, fmt.Errorf("route #%d: %w", i+1, err)
		}
	}
	return app, nil
}

func notImplemented(c *gin.Context) {
	c.String(http.StatusNotImplemented, "route %s is declared in a manifest only", c.FullPath())
}
