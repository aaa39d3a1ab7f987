package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
	"github.com/mr1hm/go-fire-hazard-map/internal/observability"
)

// CountyClient fetches a nationwide county boundary GeoJSON collection and
// filters it to the configured region by FIPS id prefix. This is a
// pass-through proxy for the map frontend, not aggregation logic, but the
// same dataset also supplies centroids for the centroid sampling strategy.
type CountyClient struct {
	baseURL    string
	prefix     string
	httpClient *http.Client
	metrics    *observability.Metrics
}

func NewCountyClient(baseURL, prefix string, timeout time.Duration, metrics *observability.Metrics) *CountyClient {
	return &CountyClient{
		baseURL: baseURL,
		prefix:  prefix,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
	}
}

type countyCollection struct {
	Features []json.RawMessage `json:"features"`
}

// countyFeature is the subset of a boundary feature the client inspects;
// the full feature passes through untouched.
type countyFeature struct {
	ID         string `json:"id"`
	Properties struct {
		Name string `json:"NAME"`
	} `json:"properties"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

// Boundaries returns the raw features whose id begins with the region
// prefix. Unlike the fire and weather feeds this does not degrade: the
// endpoint it backs has nothing to serve without it.
func (c *CountyClient) Boundaries(ctx context.Context) ([]json.RawMessage, error) {
	features, err := c.fetch(ctx)
	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamFailures.WithLabelValues("county").Inc()
		}
		return nil, err
	}

	matched := make([]json.RawMessage, 0, 300)
	for _, raw := range features {
		var f countyFeature
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		if strings.HasPrefix(f.ID, c.prefix) {
			matched = append(matched, raw)
		}
	}
	return matched, nil
}

// Centroids computes a representative point for each in-region county,
// implementing geo.CentroidSource. The centroid is the vertex mean of the
// first polygon ring, which is close enough for weather sampling.
func (c *CountyClient) Centroids(ctx context.Context) ([]models.SamplePoint, error) {
	features, err := c.fetch(ctx)
	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamFailures.WithLabelValues("county").Inc()
		}
		return nil, err
	}

	var points []models.SamplePoint
	for _, raw := range features {
		var f countyFeature
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		if !strings.HasPrefix(f.ID, c.prefix) {
			continue
		}
		centroid, ok := ringCentroid(f.Geometry.Type, f.Geometry.Coordinates)
		if !ok {
			continue
		}
		label := f.Properties.Name
		if label == "" {
			label = f.ID
		}
		points = append(points, models.SamplePoint{Label: label, Point: centroid})
	}
	return points, nil
}

func (c *CountyClient) fetch(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting county boundaries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data countyCollection
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding county collection: %w", err)
	}
	return data.Features, nil
}

func ringCentroid(geomType string, coords json.RawMessage) (models.GeoPoint, bool) {
	var ring [][]float64

	switch geomType {
	case "Polygon":
		var poly [][][]float64
		if err := json.Unmarshal(coords, &poly); err != nil || len(poly) == 0 {
			return models.GeoPoint{}, false
		}
		ring = poly[0]
	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(coords, &multi); err != nil || len(multi) == 0 || len(multi[0]) == 0 {
			return models.GeoPoint{}, false
		}
		ring = multi[0][0]
	default:
		return models.GeoPoint{}, false
	}

	var sumLon, sumLat float64
	n := 0
	for _, vertex := range ring {
		if len(vertex) < 2 {
			continue
		}
		sumLon += vertex[0]
		sumLat += vertex[1]
		n++
	}
	if n == 0 {
		return models.GeoPoint{}, false
	}
	return models.GeoPoint{Longitude: sumLon / float64(n), Latitude: sumLat / float64(n)}, true
}
