package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
	Metadata *Metadata `json:"metadata,omitempty"`
}
type Feature struct {
	Type       string         `json:"type"`
	ID         any            `json:"id,omitempty"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}
type Metadata struct {
	Timestamp       time.Time `json:"timestamp"`
	Source          string    `json:"source"`
	UpdateFrequency string    `json:"update_frequency"`
}

func snapshotToGeoJSON(snap models.HazardSnapshot) FeatureCollection {
	features := make([]Feature, 0, len(snap.Features))

	for _, hf := range snap.Features {
		switch hf.Kind {
		case models.FeatureKindFire:
			d := hf.Fire
			features = append(features, Feature{
				Type: "Feature",
				Geometry: Geometry{
					Type:        "Point",
					Coordinates: []float64{d.Point.Longitude, d.Point.Latitude},
				},
				Properties: map[string]any{
					"type":        string(models.FeatureKindFire),
					"brightness":  d.Brightness,
					"confidence":  d.Confidence,
					"acq_date":    d.AcquiredDate,
					"description": "Active fire detection",
				},
			})
		case models.FeatureKindRisk:
			a := hf.Risk
			o := a.Observation
			features = append(features, Feature{
				Type: "Feature",
				Geometry: Geometry{
					Type:        "Point",
					Coordinates: []float64{o.Sample.Point.Longitude, o.Sample.Point.Latitude},
				},
				Properties: map[string]any{
					"type":          string(models.FeatureKindRisk),
					"location":      o.Sample.Label,
					"risk_score":    a.Score,
					"risk_level":    string(a.Level),
					"color":         a.Color,
					"radius_km":     a.RadiusKM,
					"temperature":   o.Temperature,
					"humidity":      o.Humidity,
					"wind_speed":    o.WindSpeed,
					"precipitation": o.Precipitation,
				},
			})
		}
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
		Metadata: &Metadata{
			Timestamp:       snap.GeneratedAt,
			Source:          strings.Join(snap.Sources, ", "),
			UpdateFrequency: snap.UpdateFrequency,
		},
	}
}

func pointToFeature(p *models.Point) Feature {
	props := map[string]any{
		"name": p.Name,
	}
	for k, v := range p.Properties {
		if k == "name" {
			continue
		}
		props[k] = v
	}

	return Feature{
		Type: "Feature",
		ID:   p.ID,
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: []float64{p.Longitude, p.Latitude},
		},
		Properties: props,
	}
}

func pointsToGeoJSON(points []models.Point) FeatureCollection {
	features := make([]Feature, 0, len(points))
	for i := range points {
		features = append(features, pointToFeature(&points[i]))
	}
	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

func parseCoord(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
