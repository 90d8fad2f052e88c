package sitemap

import (
	"context"
	"iter"
	"sync"
)

// Source contributes entries that cannot be derived from routes or static files.
// It is called once per collection pass and passes each entry to yield, stopping
// early if yield returns false. Its output bypasses route filtering, but entries
// that fail URLInfo.Validate are still dropped with a warning.
type Source func(ctx context.Context, yield func(URLInfo) bool) error

// SeqSource adapts a plain iterator into a Source.
func SeqSource(seq iter.Seq[URLInfo]) Source {
	return func(_ context.Context, yield func(URLInfo) bool) error {
		seq(yield)
		return nil
	}
}

// Entries returns a Source that yields urls as given.
func Entries(urls ...URLInfo) Source {
	fixed := append([]URLInfo(nil), urls...)
	return func(_ context.Context, yield func(URLInfo) bool) error {
		for _, u := range fixed {
			if !yield(u) {
				break
			}
		}
		return nil
	}
}

// Registry keeps sources in registration order.
type Registry struct {
	mu      sync.RWMutex
	sources []Source
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends src. Nil sources are ignored.
func (r *Registry) Add(src Source) {
	if src == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, src)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

func (r *Registry) snapshot() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Source(nil), r.sources...)
}

// Source registers src and returns it, so a package-level source can be declared
// and registered in one statement.
func (s *SiteMap) Source(src Source) Source {
	s.sources.Add(src)
	return src
}

// SourceSeq registers a plain iterator as a source.
func (s *SiteMap) SourceSeq(seq iter.Seq[URLInfo]) {
	s.sources.Add(SeqSource(seq))
}
