package sitemap

import (
	"context"
	"fmt"
	"iter"
)

// collectURLs yields route entries, then static files, then each source in
// registration order. A location already yielded earlier in the pass is dropped, so
// the first producer of a loc wins. Entries failing Validate are dropped with a
// warning. The first error ends the sequence.
func (s *SiteMap) collectURLs(ctx context.Context) iter.Seq2[URLInfo, error] {
	return func(yield func(URLInfo, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(URLInfo{}, err)
			return
		}

		seen := make(map[string]struct{})
		emit := func(u URLInfo) bool {
			if err := u.Validate(); err != nil {
				s.log.Warnf("Dropping entry: %v", err)
				return true
			}
			if _, dup := seen[u.loc]; dup {
				s.log.Debugf("Dropping duplicate %s", u.loc)
				return true
			}
			seen[u.loc] = struct{}{}
			return yield(u, nil)
		}

		for u := range s.routeURLs() {
			if !emit(u) {
				return
			}
		}

		for u, err := range s.staticURLs() {
			if err != nil {
				yield(URLInfo{}, err)
				return
			}
			if !emit(u) {
				return
			}
		}

		for i, src := range s.sources.snapshot() {
			if err := ctx.Err(); err != nil {
				yield(URLInfo{}, err)
				return
			}
			stopped := false
			err := src(ctx, func(u URLInfo) bool {
				if stopped {
					return false
				}
				if !emit(u) {
					stopped = true
				}
				return !stopped
			})
			if stopped {
				return
			}
			if err != nil {
				yield(URLInfo{}, fmt.Errorf("%w: source #%d: %w", ErrSource, i+1, err))
				return
			}
		}
	}
}

// URLs runs a full collection pass and returns the deduplicated entries in order.
func (s *SiteMap) URLs(ctx context.Context) ([]URLInfo, error) {
	var urls []URLInfo
	for u, err := range s.collectURLs(ctx) {
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	s.log.Debugf("Collected %d URLs", len(urls))
	return urls, nil
}
