package risk

import (
	"fmt"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

// Alert is a human-readable warning for one high or extreme risk zone.
type Alert struct {
	Location string           `json:"location"`
	Level    models.RiskLevel `json:"level"`
	Message  string           `json:"message"`
}

// Summary holds alerts and level statistics derived from one snapshot.
// Fire detections are excluded from the level counts and reported separately.
type Summary struct {
	Alerts          []Alert                  `json:"alerts"`
	LevelCounts     map[models.RiskLevel]int `json:"level_counts"`
	ActiveFireCount int                      `json:"active_fire_count"`
}

// Summarize derives alerts and statistics from an already-built snapshot.
// It never refetches data; two calls on the same snapshot agree.
func Summarize(snap models.HazardSnapshot) Summary {
	s := Summary{
		Alerts: []Alert{},
		LevelCounts: map[models.RiskLevel]int{
			models.RiskLevelLow:      0,
			models.RiskLevelModerate: 0,
			models.RiskLevelHigh:     0,
			models.RiskLevelExtreme:  0,
		},
	}

	for _, f := range snap.Features {
		switch f.Kind {
		case models.FeatureKindFire:
			s.ActiveFireCount++
		case models.FeatureKindRisk:
			a := f.Risk
			s.LevelCounts[a.Level]++
			if a.Level == models.RiskLevelHigh || a.Level == models.RiskLevelExtreme {
				s.Alerts = append(s.Alerts, Alert{
					Location: a.Observation.Sample.Label,
					Level:    a.Level,
					Message:  alertMessage(a),
				})
			}
		}
	}
	return s
}

func alertMessage(a *models.RiskAssessment) string {
	o := a.Observation
	return fmt.Sprintf("%s fire risk near %s: %.0f°F, %.0f%% humidity, %.0f mph winds",
		levelAdjective(a.Level), o.Sample.Label, o.Temperature, o.Humidity, o.WindSpeed)
}

func levelAdjective(l models.RiskLevel) string {
	if l == models.RiskLevelExtreme {
		return "Extreme"
	}
	return "High"
}
