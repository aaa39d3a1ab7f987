package geo

import (
	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

// Grid generates sample points covering bbox at fixed degree spacing,
// starting at the min corner and advancing independently on each axis.
// Both axes are inclusive of the upper bound: when (max-min) is an exact
// multiple of the spacing the last coordinate equals the max. Spacing is not
// haversine-corrected; cells widen in real distance toward the poles, which
// is acceptable for a mid-latitude region.
func Grid(bbox models.BoundingBox, spacingDegrees float64) []models.SamplePoint {
	if spacingDegrees <= 0 || !bbox.Valid() {
		return nil
	}

	lats := axisSteps(bbox.MinLat, bbox.MaxLat, spacingDegrees)
	lons := axisSteps(bbox.MinLon, bbox.MaxLon, spacingDegrees)

	points := make([]models.SamplePoint, 0, len(lats)*len(lons))
	for _, lat := range lats {
		for _, lon := range lons {
			p := models.GeoPoint{Longitude: lon, Latitude: lat}
			points = append(points, models.SamplePoint{
				Label: pointLabel(p),
				Point: p,
			})
		}
	}
	return points
}

// axisSteps returns min, min+step, ... up to and including max. Values are
// computed by index rather than accumulation, and a value landing within
// epsilon of max snaps to it, so float drift cannot drop the boundary point.
func axisSteps(min, max, step float64) []float64 {
	const eps = 1e-9
	var vals []float64
	for i := 0; ; i++ {
		v := min + float64(i)*step
		if v > max+eps {
			break
		}
		if v > max {
			v = max
		}
		vals = append(vals, v)
	}
	return vals
}
