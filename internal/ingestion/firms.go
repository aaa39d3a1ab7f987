package ingestion

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
	"github.com/mr1hm/go-fire-hazard-map/internal/observability"
)

// Fire feed CSV column indexes. The feed is FIRMS-style delimited text:
// latitude, longitude, brightness, scan, track, acq_date, acq_time,
// satellite, confidence, ...
const (
	fireColBrightness = 2
	fireColAcqDate    = 5
	fireColConfidence = 8
)

// FireFeedClient fetches recent fire detections from a delimited-text feed.
// Fire data is supplementary: every upstream failure degrades to an empty
// result with a warning, never an error, so a feed outage cannot abort the
// snapshot it feeds into.
type FireFeedClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

func NewFireFeedClient(baseURL string, timeout time.Duration, metrics *observability.Metrics) *FireFeedClient {
	return &FireFeedClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
	}
}

// Fetch returns detections inside bbox from the last windowDays days.
func (c *FireFeedClient) Fetch(ctx context.Context, bbox models.BoundingBox, windowDays int) []models.FireDetection {
	url := fmt.Sprintf("%s/%d", c.baseURL, windowDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.degrade("creating request", err)
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.degrade("requesting fire feed", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.degrade("fire feed status", fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status))
		return nil
	}

	scanner := bufio.NewScanner(resp.Body)
	detections := c.parse(scanner, bbox)
	if err := scanner.Err(); err != nil {
		// A truncated body keeps whatever parsed before the failure.
		c.degrade("reading fire feed body", err)
	}
	slog.Debug("fire feed fetched", "count", len(detections))
	return detections
}

// parse applies the row rules: a row needs at least 4 fields with the first
// two parsing as lat/lon to count at all; a row shorter than 9 fields still
// counts but reports "unknown" for brightness, date and confidence.
// Malformed rows and rows outside bbox are skipped, never fatal.
func (c *FireFeedClient) parse(scanner *bufio.Scanner, bbox models.BoundingBox) []models.FireDetection {
	var detections []models.FireDetection
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 4 {
			c.dropRecord("malformed")
			continue
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if latErr != nil || lonErr != nil {
			c.dropRecord("malformed")
			continue
		}

		point := models.GeoPoint{Longitude: lon, Latitude: lat}
		if !bbox.Contains(point) {
			c.dropRecord("out_of_bbox")
			continue
		}

		d := models.FireDetection{
			Point:        point,
			Brightness:   "unknown",
			AcquiredDate: "unknown",
			Confidence:   "unknown",
		}
		if len(fields) >= 9 {
			d.Brightness = strings.TrimSpace(fields[fireColBrightness])
			d.AcquiredDate = strings.TrimSpace(fields[fireColAcqDate])
			d.Confidence = strings.TrimSpace(fields[fireColConfidence])
		}
		detections = append(detections, d)
	}
	return detections
}

func (c *FireFeedClient) degrade(stage string, err error) {
	slog.Warn("fire feed unavailable, continuing without fire data", "stage", stage, "error", err)
	if c.metrics != nil {
		c.metrics.UpstreamFailures.WithLabelValues("fire_feed").Inc()
	}
}

func (c *FireFeedClient) dropRecord(reason string) {
	if c.metrics != nil {
		c.metrics.RecordsDropped.WithLabelValues("fire_feed", reason).Inc()
	}
}
