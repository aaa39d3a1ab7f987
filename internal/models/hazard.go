package models

import "time"

// FireDetection is one row from the fire detection feed. Brightness,
// confidence and acquisition date are upstream-defined strings and are not
// guaranteed numeric; short rows report "unknown" for all three.
type FireDetection struct {
	Point        GeoPoint
	Brightness   string
	AcquiredDate string
	Confidence   string
}

// WeatherObservation is the current conditions at one sample point.
// Units follow the upstream request: °F, %, mph, inches.
type WeatherObservation struct {
	Sample        SamplePoint
	Temperature   float64
	Humidity      float64
	WindSpeed     float64
	Precipitation float64
}

type FeatureKind string

const (
	FeatureKindFire FeatureKind = "active_fire"
	FeatureKindRisk FeatureKind = "weather_risk"
)

// HazardFeature is a tagged union of a fire detection and a weather-derived
// risk assessment. Exactly one of Fire/Risk is set, indicated by Kind.
type HazardFeature struct {
	Kind FeatureKind
	Fire *FireDetection
	Risk *RiskAssessment
}

// HazardSnapshot is the complete result of one aggregation run. It is
// constructed fresh on every call and immutable once returned; fire features
// always precede weather risk features.
type HazardSnapshot struct {
	GeneratedAt     time.Time
	Sources         []string
	UpdateFrequency string
	Features        []HazardFeature
}
