package cli

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/romangod6/gin-sitemap/config"
	"github.com/romangod6/gin-sitemap/internal/models"
	"github.com/romangod6/gin-sitemap/internal/storage"
	"github.com/romangod6/gin-sitemap/sitemap"
)

// doAddURL validates one entry and upserts it into an entry store.
// Returns exit code (0 = success, 1 = error).
func doAddURL(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("add-url", stderr, "--loc URL (--db-dsn DSN | --config PATH) [options]")
	configFile := fs.String("config", "", "Config file whose first source is used when --db-dsn is empty")
	driver := fs.String("db-driver", "sqlite3", "Store driver (sqlite3 or postgres)")
	dsn := fs.String("db-dsn", "", "Store connection string or sqlite file path")
	loc := fs.String("loc", "", "Absolute URL of the page")
	lastmod := fs.String("lastmod", "", "Last modification date (W3C datetime)")
	changefreq := fs.String("changefreq", "", "Change frequency (always, hourly, daily, weekly, monthly, yearly, never)")
	priority := fs.String("priority", "", "Priority between 0.0 and 1.0")
	remove := fs.Bool("delete", false, "Delete the entry for --loc instead of storing it")

	if code, done := parseFlags(fs, args, stderr); done {
		return code
	}

	if *dsn == "" && *configFile != "" {
		cfg, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if len(cfg.Sources) == 0 {
			fmt.Fprintf(stderr, "Error: %s has no sources\n", *configFile)
			return 1
		}
		*driver, *dsn = cfg.Sources[0].Driver, cfg.Sources[0].DSN
	}
	if *loc == "" || *dsn == "" {
		fmt.Fprintln(stderr, "Error: --loc and one of --db-dsn or --config are required")
		fs.Usage()
		return 1
	}

	entry := models.NewEntry(*loc)
	entry.LastMod = *lastmod
	entry.ChangeFreq = strings.ToLower(*changefreq)
	if *priority != "" {
		p, err := strconv.ParseFloat(*priority, 64)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid priority %q\n", *priority)
			return 1
		}
		entry.Priority = &p
	}
	if err := storage.ToURLInfo(entry).Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	store, err := storage.Open(*driver, *dsn)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	if *remove {
		if err := store.DeleteEntry(ctx, entry.Loc); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Deleted %s\n", entry.Loc)
		return 0
	}

	if err := store.UpsertEntry(ctx, entry); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Stored %s\n", entry.Loc)
	return 0
}

// doInspect prints the entries of a sitemap file or URL, plain or gzipped.
// Returns exit code (0 = success, 1 = error).
func doInspect(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("inspect", stderr, "--file PATH|URL")
	target := fs.String("file", "", "Sitemap file path or http(s) URL")
	verbose := fs.Bool("v", false, "Print lastmod, changefreq and priority too")

	if code, done := parseFlags(fs, args, stderr); done {
		return code
	}
	if *target == "" {
		fmt.Fprintln(stderr, "Error: --file is required")
		fs.Usage()
		return 1
	}

	data, err := readSitemap(ctx, *target)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	set, err := decodeSitemap(data)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Total URLs found: %d\n", len(set.URLs))
	invalid := 0
	for _, u := range set.URLs {
		if *verbose {
			fmt.Fprintf(stdout, "%s\tlastmod=%s\tchangefreq=%s\tpriority=%s\n", u.Loc, u.LastMod, u.ChangeFreq, u.Priority)
		} else {
			fmt.Fprintln(stdout, u.Loc)
		}
		if err := validateEntry(u); err != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
			invalid++
		}
	}
	if invalid > 0 {
		return 1
	}
	return 0
}

// validateEntry checks a decoded entry against the same rules generation applies.
func validateEntry(u models.URL) error {
	opts := []sitemap.URLOption{sitemap.WithChangeFreq(sitemap.ChangeFreq(u.ChangeFreq))}
	if u.Priority != "" {
		p, err := strconv.ParseFloat(strings.TrimSpace(u.Priority), 64)
		if err != nil {
			return fmt.Errorf("%w: %s: priority %q is not a number", sitemap.ErrInvalidURL, u.Loc, u.Priority)
		}
		opts = append(opts, sitemap.WithPriority(p))
	}
	return sitemap.NewURLInfo(u.Loc, opts...).Validate()
}

func readSitemap(ctx context.Context, target string) ([]byte, error) {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return os.ReadFile(target)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", target, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// decodeSitemap parses a urlset document, gunzipping it first when needed.
func decodeSitemap(data []byte) (*models.URLSet, error) {
	if bytes.HasPrefix(data, []byte{0x1f, 0x8b}) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer zr.Close()
		if data, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("read gzip: %w", err)
		}
	}

	var set models.URLSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}
	return &set, nil
}
