package tasks

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/desertthunder/songalchemy/internal/models"
	"github.com/desertthunder/songalchemy/internal/services"
)

// ResolverOpts bounds the catalog fan-out during resolution.
type ResolverOpts struct {
	Workers   int
	RateLimit float64
}

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

func (o ResolverOpts) workers() int {
	switch {
	case o.Workers <= 0:
		return defaultWorkers
	case o.Workers > maxWorkers:
		return maxWorkers
	default:
		return o.Workers
	}
}

func (o ResolverOpts) rateLimit() rate.Limit {
	if o.RateLimit <= 0 {
		return rate.Limit(defaultRateLimit)
	}

	return rate.Limit(o.RateLimit)
}

// Resolver matches model suggestions against the catalog with a bounded,
// rate-limited worker pool.
type Resolver struct {
	catalog services.Catalog
	opts    ResolverOpts
}

func NewResolver(catalog services.Catalog, opts ResolverOpts) *Resolver {
	return &Resolver{catalog: catalog, opts: opts}
}

// ResolveTracks looks up each suggestion as a "track artist" search taking the
// top hit. Lookups run concurrently, but results land in an index-addressed
// slice so output order always follows suggestion order. Failed or empty
// lookups drop out, duplicate catalog ids keep their first occurrence, and the
// final list is truncated to size. Returning fewer than size tracks is a
// normal outcome.
func (r *Resolver) ResolveTracks(ctx context.Context, progress chan<- ProgressUpdate, suggestions []models.SuggestedTrack, size int) []models.Track {
	matches := make([]*models.Track, len(suggestions))
	var done atomic.Int64

	r.fanOut(ctx, len(suggestions), func(ctx context.Context, i int) {
		suggestion := suggestions[i]
		query := suggestion.TrackName + " " + suggestion.ArtistName

		found, err := r.catalog.SearchTracks(ctx, query, 1)
		matched := err == nil && len(found) > 0
		if matched {
			track := found[0]
			matches[i] = &track
		}

		step := int(done.Add(1))
		sendProgress(progress, resolvedUpdate(step, len(suggestions), suggestion.TrackName, matched))
	})

	seen := make(map[string]bool, len(matches))
	resolved := make([]models.Track, 0, size)

	for _, match := range matches {
		if match == nil || seen[match.ID] {
			continue
		}

		seen[match.ID] = true
		resolved = append(resolved, *match)

		if len(resolved) == size {
			break
		}
	}

	return resolved
}

// ResolveShows is the podcast counterpart: one show search per suggestion,
// same ordering, dedup, and truncation rules.
func (r *Resolver) ResolveShows(ctx context.Context, progress chan<- ProgressUpdate, suggestions []models.SuggestedPodcast, size int) []models.Show {
	matches := make([]*models.Show, len(suggestions))
	var done atomic.Int64

	r.fanOut(ctx, len(suggestions), func(ctx context.Context, i int) {
		suggestion := suggestions[i]

		found, err := r.catalog.SearchShows(ctx, suggestion.PodcastName, 1)
		matched := err == nil && len(found) > 0
		if matched {
			show := found[0]
			matches[i] = &show
		}

		step := int(done.Add(1))
		sendProgress(progress, resolvedUpdate(step, len(suggestions), suggestion.PodcastName, matched))
	})

	seen := make(map[string]bool, len(matches))
	resolved := make([]models.Show, 0, size)

	for _, match := range matches {
		if match == nil || seen[match.ID] {
			continue
		}

		seen[match.ID] = true
		resolved = append(resolved, *match)

		if len(resolved) == size {
			break
		}
	}

	return resolved
}

// fanOut runs fn for indices [0, n) across the worker pool, pacing starts
// through the shared rate limiter.
func (r *Resolver) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	limiter := rate.NewLimiter(r.opts.rateLimit(), 1)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.opts.workers(); w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					return
				}

				fn(ctx, i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}

	close(jobs)
	wg.Wait()
}
