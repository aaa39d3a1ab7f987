package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
	"github.com/mr1hm/go-fire-hazard-map/internal/observability"
)

// stubFetcher fails every nth request and blocks when asked, simulating a
// flaky or stuck weather upstream.
type stubFetcher struct {
	calls    atomic.Int64
	failMod  int64
	blockFor time.Duration
}

func (s *stubFetcher) Current(ctx context.Context, sp models.SamplePoint) (models.WeatherObservation, error) {
	n := s.calls.Add(1)

	if s.blockFor > 0 {
		select {
		case <-ctx.Done():
			return models.WeatherObservation{}, ctx.Err()
		case <-time.After(s.blockFor):
		}
	}

	if s.failMod > 0 && n%s.failMod == 0 {
		return models.WeatherObservation{}, errors.New("simulated upstream failure")
	}

	return models.WeatherObservation{
		Sample:      sp,
		Temperature: 70,
		Humidity:    50,
		WindSpeed:   5,
	}, nil
}

func gridPoints(n int) []models.SamplePoint {
	pts := make([]models.SamplePoint, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, models.SamplePoint{
			Label: fmt.Sprintf("p%d", i),
			Point: models.GeoPoint{Longitude: -100 + float64(i)*0.1, Latitude: 30},
		})
	}
	return pts
}

func newSampler(f WeatherFetcher, workers int) *WeatherSampler {
	return NewWeatherSampler(f, workers, time.Second, 0, observability.NewMetricsForTesting())
}

func TestSampleAll_CollectsAllPoints(t *testing.T) {
	fetcher := &stubFetcher{}
	points := gridPoints(20)

	got := newSampler(fetcher, 4).SampleAll(context.Background(), points)

	if len(got) != len(points) {
		t.Errorf("expected %d observations, got %d", len(points), len(got))
	}
}

func TestSampleAll_PartialFailuresDropPointsOnly(t *testing.T) {
	fetcher := &stubFetcher{failMod: 3} // every 3rd call fails
	points := gridPoints(30)

	got := newSampler(fetcher, 4).SampleAll(context.Background(), points)

	if len(got) >= len(points) {
		t.Errorf("expected fewer observations than points, got %d of %d", len(got), len(points))
	}
	if len(got) != 20 {
		t.Errorf("expected 20 observations (10 of 30 failed), got %d", len(got))
	}
}

func TestSampleAll_NeverExceedsInput(t *testing.T) {
	fetcher := &stubFetcher{failMod: 2}
	points := gridPoints(15)

	got := newSampler(fetcher, 8).SampleAll(context.Background(), points)

	if len(got) > len(points) {
		t.Errorf("result length %d exceeds input length %d", len(got), len(points))
	}
}

func TestSampleAll_DeadlineKeepsCompletedSamples(t *testing.T) {
	// Each request takes ~50ms; with 2 workers and a 120ms budget only a
	// few finish. The rest are abandoned, not waited for.
	fetcher := &stubFetcher{blockFor: 50 * time.Millisecond}
	points := gridPoints(40)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	start := time.Now()
	got := NewWeatherSampler(fetcher, 2, time.Second, 0, observability.NewMetricsForTesting()).
		SampleAll(ctx, points)
	elapsed := time.Since(start)

	if len(got) == len(points) {
		t.Errorf("expected the deadline to abandon some points, got all %d", len(got))
	}
	if elapsed > 2*time.Second {
		t.Errorf("sampler ran %v past its deadline", elapsed)
	}
}

func TestSampleAll_EmptyInput(t *testing.T) {
	got := newSampler(&stubFetcher{}, 4).SampleAll(context.Background(), nil)
	if len(got) != 0 {
		t.Errorf("expected no observations for no points, got %d", len(got))
	}
}

func TestSampleAll_PacingDoesNotLoseResults(t *testing.T) {
	fetcher := &stubFetcher{}
	points := gridPoints(5)

	s := NewWeatherSampler(fetcher, 2, time.Second, time.Millisecond, observability.NewMetricsForTesting())
	got := s.SampleAll(context.Background(), points)

	if len(got) != len(points) {
		t.Errorf("expected %d observations with pacing enabled, got %d", len(points), len(got))
	}
}

func TestSampleAll_ConcurrentAppendsAreSerialized(t *testing.T) {
	// Run with -race: many workers hammering the accumulator must not trip
	// the detector.
	fetcher := &stubFetcher{}
	points := gridPoints(200)

	got := newSampler(fetcher, 16).SampleAll(context.Background(), points)

	if len(got) != len(points) {
		t.Errorf("expected %d observations, got %d", len(points), len(got))
	}
}
