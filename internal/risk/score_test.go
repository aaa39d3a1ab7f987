package risk

import (
	"testing"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

func obs(temp, humidity, wind, precip float64) models.WeatherObservation {
	return models.WeatherObservation{
		Sample: models.SamplePoint{
			Label: "test",
			Point: models.GeoPoint{Longitude: -99.0, Latitude: 31.0},
		},
		Temperature:   temp,
		Humidity:      humidity,
		WindSpeed:     wind,
		Precipitation: precip,
	}
}

func TestScore_KnownValues(t *testing.T) {
	tests := []struct {
		name      string
		obs       models.WeatherObservation
		wantScore int
		wantLevel models.RiskLevel
	}{
		{
			name:      "hot dry windy maxes out",
			obs:       obs(100, 10, 35, 0),
			wantScore: 100, // 40 + 35 + 30 clamps at 100
			wantLevel: models.RiskLevelExtreme,
		},
		{
			name:      "cool humid wet floors at zero",
			obs:       obs(60, 80, 2, 0.1),
			wantScore: 0,
			wantLevel: models.RiskLevelLow,
		},
		{
			name:      "neutral defaults",
			obs:       obs(70, 50, 5, 0),
			wantScore: 0,
			wantLevel: models.RiskLevelLow,
		},
		{
			name:      "warm and breezy",
			obs:       obs(80, 35, 12, 0),
			wantScore: 30, // 10 temp + 10 humidity + 10 wind
			wantLevel: models.RiskLevelModerate,
		},
		{
			name:      "precipitation offsets heat",
			obs:       obs(90, 30, 15, 0.2),
			wantScore: 25, // 25 + 10 + 10 - 20
			wantLevel: models.RiskLevelLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.obs)
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", got.Level, tt.wantLevel)
			}
		})
	}
}

func TestScore_ClampInvariant(t *testing.T) {
	pathological := []models.WeatherObservation{
		obs(200, 0, 100, 0),
		obs(-40, 100, 0, 5),
		obs(1000, -50, 1000, -1),
		obs(0, 0, 0, 0),
	}

	for _, o := range pathological {
		got := Score(o)
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("score %d out of [0,100] for %+v", got.Score, o)
		}
	}
}

func TestScore_Monotonicity(t *testing.T) {
	base := obs(70, 50, 5, 0)

	// Non-decreasing in temperature.
	prev := Score(base).Score
	for temp := 60.0; temp <= 120; temp += 5 {
		o := base
		o.Temperature = temp
		cur := Score(o).Score
		if cur < prev {
			t.Errorf("score decreased with temperature: %d -> %d at %v°F", prev, cur, temp)
		}
		prev = cur
	}

	// Non-decreasing in wind speed.
	prev = Score(base).Score
	for wind := 0.0; wind <= 50; wind += 5 {
		o := base
		o.WindSpeed = wind
		cur := Score(o).Score
		if cur < prev {
			t.Errorf("score decreased with wind: %d -> %d at %v mph", prev, cur, wind)
		}
		prev = cur
	}

	// Non-increasing in humidity.
	o := base
	o.Humidity = 0
	prev = Score(o).Score
	for humidity := 5.0; humidity <= 100; humidity += 5 {
		o := base
		o.Humidity = humidity
		cur := Score(o).Score
		if cur > prev {
			t.Errorf("score increased with humidity: %d -> %d at %v%%", prev, cur, humidity)
		}
		prev = cur
	}
}

func TestScore_LevelThresholdsExact(t *testing.T) {
	tests := []struct {
		score int
		want  models.RiskLevel
	}{
		{25, models.RiskLevelLow},
		{26, models.RiskLevelModerate},
		{50, models.RiskLevelModerate},
		{51, models.RiskLevelHigh},
		{75, models.RiskLevelHigh},
		{76, models.RiskLevelExtreme},
		{0, models.RiskLevelLow},
		{100, models.RiskLevelExtreme},
	}

	for _, tt := range tests {
		if got := levelFor(tt.score); got != tt.want {
			t.Errorf("levelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestScore_LevelConstants(t *testing.T) {
	tests := []struct {
		obs        models.WeatherObservation
		wantLevel  models.RiskLevel
		wantColor  string
		wantRadius float64
	}{
		{obs(100, 10, 35, 0), models.RiskLevelExtreme, "#8B0000", 60},
		{obs(96, 10, 5, 0), models.RiskLevelHigh, "#FF4500", 50}, // 40 + 35
		{obs(80, 35, 12, 0), models.RiskLevelModerate, "#FFA500", 40},
		{obs(60, 80, 2, 0), models.RiskLevelLow, "#90EE90", 30},
	}

	for _, tt := range tests {
		got := Score(tt.obs)
		if got.Level != tt.wantLevel {
			t.Errorf("level = %s, want %s (score %d)", got.Level, tt.wantLevel, got.Score)
		}
		if got.Color != tt.wantColor {
			t.Errorf("color = %s, want %s for level %s", got.Color, tt.wantColor, tt.wantLevel)
		}
		if got.RadiusKM != tt.wantRadius {
			t.Errorf("radius = %v, want %v for level %s", got.RadiusKM, tt.wantRadius, tt.wantLevel)
		}
	}
}

func TestScore_Pure(t *testing.T) {
	o := obs(88, 20, 25, 0)
	first := Score(o)
	second := Score(o)
	if first != second {
		t.Errorf("two calls on the same observation differ: %+v vs %+v", first, second)
	}
}
