package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-fire-hazard-map/internal/geo"
	"github.com/mr1hm/go-fire-hazard-map/internal/models"
	"github.com/mr1hm/go-fire-hazard-map/internal/observability"
	"github.com/mr1hm/go-fire-hazard-map/internal/risk"
)

// FireFetcher abstracts the fire feed for the aggregator. Implementations
// absorb upstream failures and return what they have.
type FireFetcher interface {
	Fetch(ctx context.Context, bbox models.BoundingBox, windowDays int) []models.FireDetection
}

// Sampler abstracts the weather fan-out.
type Sampler interface {
	SampleAll(ctx context.Context, points []models.SamplePoint) []models.WeatherObservation
}

// Aggregator builds hazard snapshots: fire detections and weather-derived
// risk zones for one region, fetched concurrently and merged. Each call
// recomputes from live sources; nothing is cached or persisted.
type Aggregator struct {
	fires          FireFetcher
	sampler        Sampler
	provider       geo.SamplePointProvider
	bbox           models.BoundingBox
	fireWindowDays int
	buildDeadline  time.Duration
	clock          clockwork.Clock
	metrics        *observability.Metrics
}

func NewAggregator(
	fires FireFetcher,
	sampler Sampler,
	provider geo.SamplePointProvider,
	bbox models.BoundingBox,
	fireWindowDays int,
	buildDeadline time.Duration,
	metrics *observability.Metrics,
) *Aggregator {
	return &Aggregator{
		fires:          fires,
		sampler:        sampler,
		provider:       provider,
		bbox:           bbox,
		fireWindowDays: fireWindowDays,
		buildDeadline:  buildDeadline,
		clock:          clockwork.NewRealClock(),
		metrics:        metrics,
	}
}

// SetClock swaps the time source for snapshot timestamps. Tests freeze time
// with a fake clock; pass nil to reset to the real one.
func (a *Aggregator) SetClock(c clockwork.Clock) {
	if c == nil {
		a.clock = clockwork.NewRealClock()
		return
	}
	a.clock = c
}

// BuildSnapshot assembles the current hazard picture. The two upstream
// fetches are independent and run concurrently; fire features always come
// first in the merged sequence, followed by risk zones in the order the
// sampler returned them. A source outage produces a degraded snapshot, not
// an error; the only failures surfaced here are contract-level ones (no
// sample points at all, invalid region).
func (a *Aggregator) BuildSnapshot(ctx context.Context) (models.HazardSnapshot, error) {
	if a.metrics != nil {
		a.metrics.SnapshotBuilds.Inc()
	}
	start := a.clock.Now()

	if !a.bbox.Valid() {
		return models.HazardSnapshot{}, a.fail(fmt.Errorf("invalid region bounding box: %+v", a.bbox))
	}

	ctx, cancel := context.WithTimeout(ctx, a.buildDeadline)
	defer cancel()

	points, err := a.provider.Points(ctx)
	if err != nil {
		return models.HazardSnapshot{}, a.fail(fmt.Errorf("resolving sample points: %w", err))
	}

	// Fire feed and weather sampling have no data dependency; run both at
	// once and join on the channels.
	fireCh := make(chan []models.FireDetection, 1)
	obsCh := make(chan []models.WeatherObservation, 1)

	go func() {
		fireCh <- a.fires.Fetch(ctx, a.bbox, a.fireWindowDays)
	}()
	go func() {
		obsCh <- a.sampler.SampleAll(ctx, points)
	}()

	fires := <-fireCh
	observations := <-obsCh

	features := make([]models.HazardFeature, 0, len(fires)+len(observations))
	for i := range fires {
		features = append(features, models.HazardFeature{
			Kind: models.FeatureKindFire,
			Fire: &fires[i],
		})
	}
	for _, obs := range observations {
		assessment := risk.Score(obs)
		features = append(features, models.HazardFeature{
			Kind: models.FeatureKindRisk,
			Risk: &assessment,
		})
	}

	snap := models.HazardSnapshot{
		GeneratedAt:     a.clock.Now().UTC(),
		Sources:         []string{"NASA FIRMS", "Open-Meteo"},
		UpdateFrequency: "on_demand",
		Features:        features,
	}

	if a.metrics != nil {
		a.metrics.BuildDuration.Observe(a.clock.Since(start).Seconds())
	}
	slog.Info("hazard snapshot built",
		"fires", len(fires),
		"risk_zones", len(observations),
		"sample_points", len(points),
		"duration", a.clock.Since(start))

	return snap, nil
}

func (a *Aggregator) fail(err error) error {
	if a.metrics != nil {
		a.metrics.SnapshotFailures.Inc()
	}
	slog.Error("snapshot build failed", "error", err)
	return err
}
