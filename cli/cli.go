// Package cli implements the sitemap command line. Applications are linked into a
// binary by calling router.Register from an init function and then cli.Run; the
// stock binary in cmd/sitemap works with route manifests only.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/romangod6/gin-sitemap/config"
	"github.com/romangod6/gin-sitemap/internal/logging"
	"github.com/romangod6/gin-sitemap/internal/storage"
	"github.com/romangod6/gin-sitemap/router"
	"github.com/romangod6/gin-sitemap/sitemap"
)

const version = "0.3.0"

// Run executes the command in args (without the program name) and returns the
// process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsageTo(stderr)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "init":
		return doInit(args[1:], stdout, stderr)
	case "generate":
		return doGenerate(ctx, args[1:], stdout, stderr)
	case "serve":
		return doServe(ctx, args[1:], stdout, stderr)
	case "add-url":
		return doAddURL(ctx, args[1:], stdout, stderr)
	case "inspect":
		return doInspect(ctx, args[1:], stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "sitemap %s\n", version)
		return 0
	case "-h", "--help", "help":
		printUsageTo(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsageTo(stderr)
		return 1
	}
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `sitemap - sitemap generator for gin applications

Usage:
  sitemap <command> [options]

Commands:
  init      Write a starter config file
  generate  Write sitemap.xml (and sitemap.xml.gz) into a directory
  serve     Serve the application with /sitemap.xml attached
  add-url   Store an extra URL in an entry database
  inspect   Print the entries of a sitemap file or URL
  version   Show version info

Run 'sitemap <command> -h' for command-specific help.`)
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// expandMultiValue rewrites "--name a b c" into "--name=a --name=b --name=c" so a
// repeatable flag can also take several values at once. Values end at the next
// argument starting with "-".
func expandMultiValue(args []string, name string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if arg != "-"+name && arg != "--"+name {
			out = append(out, arg)
			continue
		}
		j := i + 1
		for j < len(args) && !strings.HasPrefix(args[j], "-") {
			out = append(out, "--"+name+"="+args[j])
			j++
		}
		if j == i+1 {
			out = append(out, arg) // no values; let the flag package report it
		}
		i = j - 1
	}
	return out
}

// parseFlags parses args and rejects leftover positional arguments.
// It returns done=true with the exit code when the command should stop.
func parseFlags(fs *flag.FlagSet, args []string, stderr io.Writer) (code int, done bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, true
		}
		return 1, true
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return 1, true
	}
	return 0, false
}

func newFlagSet(name string, stderr io.Writer, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sitemap %s %s\n\nOptions:\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// appFlags are the flags shared by generate and serve for locating the application.
type appFlags struct {
	configFile      string
	app             string
	baseURL         string
	gzip            bool
	includeDynamic  bool
	excludePatterns stringList
	excludeDeps     stringList
	staticDirs      stringList
	logLevel        string
	logDir          string
}

func (f *appFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configFile, "config", "", "Path to config file")
	fs.StringVar(&f.app, "app", "", "Registered application name or route manifest file")
	fs.StringVar(&f.baseURL, "base_url", "", "Absolute base URL, e.g. https://example.com")
	fs.StringVar(&f.baseURL, "base-url", "", "Alias of --base_url")
	fs.BoolVar(&f.gzip, "gzip", false, "Also produce gzip output")
	fs.BoolVar(&f.includeDynamic, "include-dynamic", false, "Include routes with path parameters")
	fs.Var(&f.excludePatterns, "exclude-patterns", "Regex of route paths to exclude (repeatable, or several values)")
	fs.Var(&f.excludeDeps, "exclude-deps", "Dependency name whose routes are excluded (repeatable)")
	fs.Var(&f.staticDirs, "static", "Static directory to scan (repeatable)")
	fs.StringVar(&f.logLevel, "loglevel", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logDir, "log-dir", "", "Also write logs to a file under this directory")
}

// resolveConfig loads --config when given and overlays the command line flags.
func (f *appFlags) resolveConfig() (*config.Config, error) {
	if f.configFile == "" && f.app == "" {
		return nil, errors.New("one of --config or --app is required")
	}

	cfg := config.Default()
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.app != "" {
		cfg.App = f.app
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	cfg.Gzip = cfg.Gzip || f.gzip
	cfg.IncludeDynamic = cfg.IncludeDynamic || f.includeDynamic
	cfg.ExcludePatterns = append(cfg.ExcludePatterns, f.excludePatterns...)
	cfg.ExcludeDeps = append(cfg.ExcludeDeps, f.excludeDeps...)
	cfg.StaticDirs = append(cfg.StaticDirs, f.staticDirs...)
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build resolves the application and assembles a SiteMap with every configured
// source. The returned cleanup closes entry stores.
func build(cfg *config.Config, log logrus.FieldLogger) (*router.App, *sitemap.SiteMap, func(), error) {
	app, err := router.Resolve(cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}

	sm, err := sitemap.New(app, cfg.SitemapOptions(log))
	if err != nil {
		return nil, nil, nil, err
	}

	if entries := cfg.InlineEntries(); len(entries) > 0 {
		sm.Source(sitemap.Entries(entries...))
	}

	var stores []storage.Store
	cleanup := func() {
		for _, store := range stores {
			store.Close()
		}
	}
	for _, src := range cfg.Sources {
		store, err := storage.Open(src.Driver, src.DSN)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		stores = append(stores, store)
		sm.Source(storage.NewSource(store))
	}

	return app, sm, cleanup, nil
}

// newLogger builds the command logger on stderr, plus a log file when requested.
// The returned close function is never nil.
func newLogger(level, logDir, run string, stderr io.Writer) (*logrus.Logger, func(), error) {
	log := logging.New(level, stderr)
	if logDir == "" {
		return log, func() {}, nil
	}
	file, err := logging.AttachFile(log, logDir, run)
	if err != nil {
		return nil, nil, err
	}
	return log, func() { file.Close() }, nil
}
