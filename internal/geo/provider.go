package geo

import (
	"context"
	"fmt"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

// SamplePointProvider yields the coordinates the weather sampler visits.
// The pipeline is parameterized on this interface so the sampling strategy
// (regular grid, fixed city list, county centroids) can be swapped without
// touching the aggregation path.
type SamplePointProvider interface {
	Points(ctx context.Context) ([]models.SamplePoint, error)
}

// GridProvider samples a regular grid over a bounding box.
type GridProvider struct {
	BBox    models.BoundingBox
	Spacing float64
}

func (g GridProvider) Points(ctx context.Context) ([]models.SamplePoint, error) {
	if !g.BBox.Valid() {
		return nil, fmt.Errorf("invalid bounding box: %+v", g.BBox)
	}
	if g.Spacing <= 0 {
		return nil, fmt.Errorf("invalid grid spacing: %v", g.Spacing)
	}
	return Grid(g.BBox, g.Spacing), nil
}

// FixedListProvider samples a static list of named locations.
type FixedListProvider struct {
	Locations []models.SamplePoint
}

func (f FixedListProvider) Points(ctx context.Context) ([]models.SamplePoint, error) {
	if len(f.Locations) == 0 {
		return nil, fmt.Errorf("fixed location list is empty")
	}
	return f.Locations, nil
}

// CentroidSource supplies named centroids from an external boundary dataset.
// Implemented by the county boundary client.
type CentroidSource interface {
	Centroids(ctx context.Context) ([]models.SamplePoint, error)
}

// CentroidProvider samples the centroid of each administrative boundary
// returned by its source. Unlike the other providers this one performs I/O;
// a source failure fails the whole aggregation rather than degrading it,
// because without sample points there is nothing to build.
type CentroidProvider struct {
	Source CentroidSource
}

func (c CentroidProvider) Points(ctx context.Context) ([]models.SamplePoint, error) {
	pts, err := c.Source.Centroids(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching centroids: %w", err)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("centroid source returned no points")
	}
	return pts, nil
}

func pointLabel(p models.GeoPoint) string {
	return fmt.Sprintf("%.2f, %.2f", p.Latitude, p.Longitude)
}
