package infrastructure

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
)

// DefaultSearchRate is the default number of resolver calls allowed per second.
const DefaultSearchRate = 5.0

// RateLimitedResolver throttles calls to the wrapped resolver so that bursts of
// keystroke-driven searches do not overload the metadata backend.
type RateLimitedResolver struct {
	next    ports.TrackResolver
	limiter *rate.Limiter
}

// NewRateLimitedResolver wraps next with a limiter allowing perSecond calls per
// second with the given burst.
func NewRateLimitedResolver(next ports.TrackResolver, perSecond float64, burst int) *RateLimitedResolver {
	if perSecond <= 0 {
		perSecond = DefaultSearchRate
	}
	if burst <= 0 {
		burst = 1
	}

	return &RateLimitedResolver{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// LoadTracks waits for a token and then delegates to the wrapped resolver.
// A search superseded while waiting returns the context error without calling through.
func (r *RateLimitedResolver) LoadTracks(ctx context.Context, query string) (*ports.LoadResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.next.LoadTracks(ctx, query)
}

var _ ports.TrackResolver = (*RateLimitedResolver)(nil)
