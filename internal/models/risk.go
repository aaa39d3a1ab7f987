package models

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelExtreme  RiskLevel = "extreme"
)

// RiskAssessment is the scored form of a weather observation. Score is
// clamped to [0,100]; color and radius are fixed per level.
type RiskAssessment struct {
	Observation WeatherObservation
	Score       int
	Level       RiskLevel
	Color       string
	RadiusKM    float64
}
