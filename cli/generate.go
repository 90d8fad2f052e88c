package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/romangod6/gin-sitemap/config"
)

// doInit writes a starter config file.
// Returns exit code (0 = success, 1 = error).
func doInit(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("init", stderr, "--app NAME --base_url URL [--out PATH]")
	app := fs.String("app", "", "Registered application name or route manifest file")
	var baseURL string
	fs.StringVar(&baseURL, "base_url", "", "Absolute base URL, e.g. https://example.com")
	fs.StringVar(&baseURL, "base-url", "", "Alias of --base_url")
	out := fs.String("out", "sitemap.yaml", "Path of the config file to write")
	gzip := fs.Bool("gzip", false, "Enable gzip output in the written config")
	force := fs.Bool("force", false, "Overwrite an existing file")

	if code, done := parseFlags(fs, args, stderr); done {
		return code
	}

	if *app == "" || baseURL == "" {
		fmt.Fprintln(stderr, "Error: --app and --base_url are required")
		fs.Usage()
		return 1
	}
	if u, err := url.Parse(baseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fmt.Fprintf(stderr, "Error: base URL %q must be an absolute http(s) URL\n", baseURL)
		return 1
	}

	cfg := config.Default()
	cfg.App = *app
	cfg.BaseURL = baseURL
	cfg.Gzip = *gzip

	if err := config.WriteStarter(*out, cfg, *force); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Wrote %s\n", *out)
	return 0
}

// doGenerate writes the sitemap files and prints each written path.
// Returns exit code (0 = success, 1 = error).
func doGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("generate", stderr, "(--config PATH | --app NAME --base_url URL) [--out DIR] [options]")
	var flags appFlags
	flags.register(fs)
	out := fs.String("out", ".", "Existing directory to write into")

	if code, done := parseFlags(fs, expandMultiValue(args, "exclude-patterns"), stderr); done {
		return code
	}

	cfg, err := flags.resolveConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log, closeLog, err := newLogger(cfg.LogLevel, flags.logDir, "generate", stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	_, sm, cleanup, err := build(cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	files, err := sm.Generate(ctx, *out)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	for _, f := range files {
		fmt.Fprintln(stdout, f)
	}
	return 0
}
