package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/shared"
	"golang.org/x/time/rate"
)

// WarmupOpts contains configuration for bulk cache warming.
type WarmupOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Seeds dispatched per second (default: 5)
}

// Warm resolves the given seeds concurrently with rate limiting and progress
// tracking.
//
// A worker pool pulls seeds from a job channel; the dispatcher paces seed
// admission against the rate limiter so the pipeline's own upstream limiter
// is not the only backpressure. Individual seed failures are recorded, not
// fatal; the run completes and reports them in the result.
func (e *WarmEngine) Warm(ctx context.Context, prog chan<- ProgressUpdate, seeds []Seed, opts WarmupOpts) (*WarmupResult, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrInvalidArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &WarmupResult{
		Total:   len(seeds),
		Results: make([]SeedResult, 0, len(seeds)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan Seed, len(seeds))
	results := make(chan SeedResult, len(seeds))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.warmWorker(ctx, &wg, jobs, results)
	}

	go func() {
		for i, seed := range seeds {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			e.sendProgress(prog, warmingUpdate(i+1, len(seeds), seed))
			jobs <- seed
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Succeeded++
			e.sendProgress(prog, warmCompletedUpdate(completed, len(seeds), res.Seed))
		} else {
			result.Failed++
			e.sendProgress(prog, warmFailedUpdate(completed, len(seeds), res.Seed, res.Error))
		}
	}

	return result, nil
}

// warmWorker is a worker goroutine that resolves seeds from the jobs channel.
func (e *WarmEngine) warmWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan Seed, results chan<- SeedResult) {
	defer wg.Done()

	for seed := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.warmSeed(ctx, seed)
	}
}

// warmSeed resolves a single seed through the pipeline.
func (e *WarmEngine) warmSeed(ctx context.Context, seed Seed) SeedResult {
	var err error

	switch seed.Kind {
	case models.KindArtist:
		_, err = e.resolver.ResolveArtist(ctx, seed.ID)
	case models.KindAlbum:
		_, err = e.resolver.ResolveAlbum(ctx, seed.ID)
	case models.KindTrack:
		_, err = e.resolver.ResolveTrack(ctx, seed.ID)
	case models.KindPlaylist:
		_, err = e.resolver.ResolvePlaylist(ctx, seed.ID)
	default:
		err = fmt.Errorf("%w: unknown entity kind %q", shared.ErrInvalidArgument, seed.Kind)
	}

	return SeedResult{
		Seed:    seed,
		Success: err == nil,
		Error:   err,
	}
}
