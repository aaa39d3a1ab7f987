package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
	"github.com/mr1hm/go-fire-hazard-map/internal/observability"
	"github.com/mr1hm/go-fire-hazard-map/internal/worker"
)

// WeatherFetcher is the per-point fetch the sampler fans out over.
type WeatherFetcher interface {
	Current(ctx context.Context, sp models.SamplePoint) (models.WeatherObservation, error)
}

// WeatherSampler fetches current conditions for a batch of sample points
// with bounded concurrency. One point failing (timeout, bad status,
// malformed body) drops only that point; the batch always completes with
// whatever was collected, so len(result) <= len(points). Pacing between
// requests respects upstream fair-use limits.
type WeatherSampler struct {
	fetcher         WeatherFetcher
	workers         int
	requestTimeout  time.Duration
	requestInterval time.Duration
	metrics         *observability.Metrics
}

func NewWeatherSampler(fetcher WeatherFetcher, workers int, requestTimeout, requestInterval time.Duration, metrics *observability.Metrics) *WeatherSampler {
	if workers < 1 {
		workers = 1
	}
	return &WeatherSampler{
		fetcher:         fetcher,
		workers:         workers,
		requestTimeout:  requestTimeout,
		requestInterval: requestInterval,
		metrics:         metrics,
	}
}

// SampleAll fetches observations for every point, in arbitrary completion
// order. The caller's ctx bounds total wall time: when it expires,
// already-collected observations are returned and in-flight points are
// abandoned.
func (s *WeatherSampler) SampleAll(ctx context.Context, points []models.SamplePoint) []models.WeatherObservation {
	if len(points) == 0 {
		return nil
	}

	var limiter *rate.Limiter
	if s.requestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(s.requestInterval), 1)
	}

	// The accumulator is the only state shared between workers; appends
	// stay behind the mutex.
	var (
		mu  sync.Mutex
		acc = make([]models.WeatherObservation, 0, len(points))
	)

	process := func(ctx context.Context, sp models.SamplePoint) error {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()

		obs, err := s.fetcher.Current(reqCtx, sp)
		if err != nil {
			slog.Warn("weather sample failed, dropping point",
				"lat", sp.Point.Latitude, "lon", sp.Point.Longitude, "error", err)
			if s.metrics != nil {
				s.metrics.SamplesFailed.Inc()
				s.metrics.UpstreamFailures.WithLabelValues("weather").Inc()
			}
			return err
		}

		mu.Lock()
		acc = append(acc, obs)
		mu.Unlock()
		if s.metrics != nil {
			s.metrics.SamplesCollected.Inc()
		}
		return nil
	}

	// Buffer sized to the batch so Submit cannot block if workers exit
	// early on a cancelled context.
	pool := worker.NewPool(s.workers, len(points), process)
	pool.Start(ctx)
	for _, p := range points {
		pool.Submit(p)
	}
	pool.Stop()

	slog.Debug("weather sampling complete", "requested", len(points), "collected", len(acc))
	return acc
}
