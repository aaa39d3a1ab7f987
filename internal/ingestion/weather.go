package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

// Neutral fallbacks for fields the weather service omits. Documented
// upstream defaults; a missing field must not fail the sample.
const (
	defaultTemperature   = 70.0 // °F
	defaultHumidity      = 50.0 // %
	defaultWindSpeed     = 5.0  // mph
	defaultPrecipitation = 0.0
)

// WeatherClient fetches current conditions for one coordinate from an
// Open-Meteo-style service. Units are requested imperial so observations
// feed the scorer without conversion.
type WeatherClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewWeatherClient(baseURL string, httpClient *http.Client) *WeatherClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WeatherClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type weatherResponse struct {
	Current struct {
		Temperature   *float64 `json:"temperature_2m"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
		Precipitation *float64 `json:"precipitation"`
	} `json:"current"`
}

// Current fetches conditions at the sample point. The per-point timeout is
// the caller's responsibility via ctx.
func (c *WeatherClient) Current(ctx context.Context, sp models.SamplePoint) (models.WeatherObservation, error) {
	params := url.Values{
		"latitude":           {fmt.Sprintf("%.4f", sp.Point.Latitude)},
		"longitude":          {fmt.Sprintf("%.4f", sp.Point.Longitude)},
		"current":            {"temperature_2m,relative_humidity_2m,wind_speed_10m,precipitation"},
		"temperature_unit":   {"fahrenheit"},
		"wind_speed_unit":    {"mph"},
		"precipitation_unit": {"inch"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.WeatherObservation{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.WeatherObservation{}, fmt.Errorf("requesting weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.WeatherObservation{}, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.WeatherObservation{}, fmt.Errorf("decoding weather response: %w", err)
	}

	obs := models.WeatherObservation{
		Sample:        sp,
		Temperature:   orDefault(data.Current.Temperature, defaultTemperature),
		Humidity:      orDefault(data.Current.Humidity, defaultHumidity),
		WindSpeed:     orDefault(data.Current.WindSpeed, defaultWindSpeed),
		Precipitation: orDefault(data.Current.Precipitation, defaultPrecipitation),
	}
	return obs, nil
}

func orDefault(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
