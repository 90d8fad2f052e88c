package sitemap

import (
	"fmt"
	"strings"
	"time"
)

// ChangeFreq is the sitemap protocol's hint for how often a page changes.
type ChangeFreq string

const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

// Valid reports whether f is one of the protocol values.
func (f ChangeFreq) Valid() bool {
	switch f {
	case Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return true
	}
	return false
}

// URLInfo is a single sitemap entry. Values are immutable once built; use NewURLInfo.
type URLInfo struct {
	loc         string
	lastmod     string
	changefreq  ChangeFreq
	priority    float64
	hasPriority bool
}

// URLOption sets an optional field on a URLInfo under construction.
type URLOption func(*URLInfo)

// WithLastMod sets lastmod verbatim, e.g. "2024-01-01".
func WithLastMod(lastmod string) URLOption {
	return func(u *URLInfo) { u.lastmod = lastmod }
}

// WithLastModTime sets lastmod from t as a W3C date (YYYY-MM-DD).
func WithLastModTime(t time.Time) URLOption {
	return func(u *URLInfo) { u.lastmod = t.UTC().Format("2006-01-02") }
}

func WithChangeFreq(freq ChangeFreq) URLOption {
	return func(u *URLInfo) { u.changefreq = ChangeFreq(strings.ToLower(string(freq))) }
}

func WithPriority(priority float64) URLOption {
	return func(u *URLInfo) {
		u.priority = priority
		u.hasPriority = true
	}
}

// NewURLInfo builds an entry for the absolute location loc.
func NewURLInfo(loc string, opts ...URLOption) URLInfo {
	u := URLInfo{loc: loc}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func (u URLInfo) Loc() string            { return u.loc }
func (u URLInfo) LastMod() string        { return u.lastmod }
func (u URLInfo) ChangeFreq() ChangeFreq { return u.changefreq }

// Priority returns the priority and whether one was set.
func (u URLInfo) Priority() (float64, bool) { return u.priority, u.hasPriority }

// Validate checks the entry against the sitemap protocol's field constraints.
func (u URLInfo) Validate() error {
	if strings.TrimSpace(u.loc) == "" {
		return fmt.Errorf("%w: empty loc", ErrInvalidURL)
	}
	if u.changefreq != "" && !u.changefreq.Valid() {
		return fmt.Errorf("%w: %s: unknown changefreq %q", ErrInvalidURL, u.loc, u.changefreq)
	}
	if u.hasPriority && (u.priority < 0 || u.priority > 1) {
		return fmt.Errorf("%w: %s: priority %v outside [0.0, 1.0]", ErrInvalidURL, u.loc, u.priority)
	}
	return nil
}

func (u URLInfo) String() string { return u.loc }
