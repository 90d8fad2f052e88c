package sitemap

import "errors"

var (
	ErrMissingApp     = errors.New("sitemap: application is required")
	ErrMissingBaseURL = errors.New("sitemap: base URL is required")
	ErrInvalidBaseURL = errors.New("sitemap: base URL must be absolute http(s)")
	ErrInvalidPattern = errors.New("sitemap: invalid exclude pattern")
	ErrInvalidURL     = errors.New("sitemap: invalid URL entry")
	ErrFilesystem     = errors.New("sitemap: filesystem error") // Wraps os errors
	ErrSource         = errors.New("sitemap: source failed")    // Wraps the source's own error
)
