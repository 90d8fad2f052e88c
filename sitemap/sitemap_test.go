package sitemap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		app     Application
		opts    Options
		wantErr error
	}{
		{name: "missing app", app: nil, opts: Options{BaseURL: "https://example.com"}, wantErr: ErrMissingApp},
		{name: "missing base URL", app: newFakeApp(), opts: Options{}, wantErr: ErrMissingBaseURL},
		{name: "relative base URL", app: newFakeApp(), opts: Options{BaseURL: "example.com"}, wantErr: ErrInvalidBaseURL},
		{name: "non-http scheme", app: newFakeApp(), opts: Options{BaseURL: "ftp://example.com"}, wantErr: ErrInvalidBaseURL},
		{name: "bad pattern", app: newFakeApp(), opts: Options{BaseURL: "https://example.com", ExcludePatterns: []string{"("}}, wantErr: ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, err := New(tt.app, tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, sm)
		})
	}
}

func TestNew_NormalizesBaseURL(t *testing.T) {
	sm := newTestSiteMap(t, newFakeApp(), Options{BaseURL: "https://example.com/", Gzip: true})
	assert.Equal(t, "https://example.com", sm.BaseURL())
	assert.True(t, sm.Gzip())
	assert.Equal(t, 0, sm.Sources().Len())
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"", "https://example.com/"},
		{"/", "https://example.com/"},
		{"/about", "https://example.com/about"},
		{"about", "https://example.com/about"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, joinURL("https://example.com", tt.path))
		})
	}
}

func TestURLInfo_Validate(t *testing.T) {
	tests := []struct {
		name    string
		url     URLInfo
		wantErr bool
	}{
		{name: "loc only", url: NewURLInfo("https://example.com/")},
		{name: "all fields", url: NewURLInfo("https://example.com/", WithLastMod("2024-01-01"), WithChangeFreq(Daily), WithPriority(0.8))},
		{name: "upper-case changefreq", url: NewURLInfo("https://example.com/", WithChangeFreq("WEEKLY"))},
		{name: "priority bounds", url: NewURLInfo("https://example.com/", WithPriority(1))},
		{name: "empty loc", url: NewURLInfo("  "), wantErr: true},
		{name: "unknown changefreq", url: NewURLInfo("https://example.com/", WithChangeFreq("sometimes")), wantErr: true},
		{name: "priority too high", url: NewURLInfo("https://example.com/", WithPriority(1.5)), wantErr: true},
		{name: "negative priority", url: NewURLInfo("https://example.com/", WithPriority(-0.1)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.url.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestURLInfo_Accessors(t *testing.T) {
	u := NewURLInfo("https://example.com/a",
		WithLastModTime(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)),
		WithChangeFreq("Monthly"),
	)
	assert.Equal(t, "https://example.com/a", u.Loc())
	assert.Equal(t, "2024-03-09", u.LastMod())
	assert.Equal(t, Monthly, u.ChangeFreq())
	_, ok := u.Priority()
	assert.False(t, ok)
	assert.Equal(t, "https://example.com/a", u.String())

	p, ok := NewURLInfo("x", WithPriority(0)).Priority()
	require.True(t, ok)
	assert.Equal(t, 0.0, p)
}
