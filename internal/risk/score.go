// Package risk derives fire-weather risk classifications from weather
// observations. Scoring is a pure additive heuristic in the style of a fire
// weather index; the thresholds, colors and radii are contractual constants
// shared with the map frontend.
package risk

import (
	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

// Score maps an observation to a risk assessment. Pure and total: defined
// for any input, clamped to [0,100] at the end rather than mid-computation.
func Score(obs models.WeatherObservation) models.RiskAssessment {
	score := 0

	if obs.Temperature > 75 {
		score += 10
	}
	if obs.Temperature > 85 {
		score += 15
	}
	if obs.Temperature > 95 {
		score += 15
	}

	if obs.Humidity < 40 {
		score += 10
	}
	if obs.Humidity < 25 {
		score += 15
	}
	if obs.Humidity < 15 {
		score += 10
	}

	if obs.WindSpeed > 10 {
		score += 10
	}
	if obs.WindSpeed > 20 {
		score += 10
	}
	if obs.WindSpeed > 30 {
		score += 10
	}

	if obs.Precipitation > 0 {
		score -= 20
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	level := levelFor(score)
	return models.RiskAssessment{
		Observation: obs,
		Score:       score,
		Level:       level,
		Color:       levelColors[level],
		RadiusKM:    levelRadiiKM[level],
	}
}

func levelFor(score int) models.RiskLevel {
	switch {
	case score >= 76:
		return models.RiskLevelExtreme
	case score >= 51:
		return models.RiskLevelHigh
	case score >= 26:
		return models.RiskLevelModerate
	default:
		return models.RiskLevelLow
	}
}

var levelColors = map[models.RiskLevel]string{
	models.RiskLevelLow:      "#90EE90",
	models.RiskLevelModerate: "#FFA500",
	models.RiskLevelHigh:     "#FF4500",
	models.RiskLevelExtreme:  "#8B0000",
}

var levelRadiiKM = map[models.RiskLevel]float64{
	models.RiskLevelLow:      30,
	models.RiskLevelModerate: 40,
	models.RiskLevelHigh:     50,
	models.RiskLevelExtreme:  60,
}
