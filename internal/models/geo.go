package models

// GeoPoint is a WGS84 coordinate pair in degrees.
type GeoPoint struct {
	Longitude float64
	Latitude  float64
}

// Valid reports whether the point lies inside the WGS84 coordinate range.
func (p GeoPoint) Valid() bool {
	return p.Longitude >= -180 && p.Longitude <= 180 &&
		p.Latitude >= -90 && p.Latitude <= 90
}

// BoundingBox is an axis-aligned lon/lat rectangle, min <= max on each axis.
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

func (b BoundingBox) Valid() bool {
	return b.MinLon <= b.MaxLon && b.MinLat <= b.MaxLat &&
		GeoPoint{Longitude: b.MinLon, Latitude: b.MinLat}.Valid() &&
		GeoPoint{Longitude: b.MaxLon, Latitude: b.MaxLat}.Valid()
}

// Contains reports whether p lies inside the box, bounds inclusive.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Longitude >= b.MinLon && p.Longitude <= b.MaxLon &&
		p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat
}

// SamplePoint is a coordinate chosen for weather sampling, with a
// human-readable label used in alerts ("31.50, -99.25" for grid points,
// a city or county name for list-based providers).
type SamplePoint struct {
	Label string
	Point GeoPoint
}
