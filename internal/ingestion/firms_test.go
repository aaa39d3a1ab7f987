package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
	"github.com/mr1hm/go-fire-hazard-map/internal/observability"
)

func TestMain(m *testing.M) {
	// Keep-alive connections from httptest clients park goroutines in the
	// shared transport; they are not leaks.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// texasBBox approximates continental Texas.
var texasBBox = models.BoundingBox{MinLon: -106.65, MinLat: 25.84, MaxLon: -93.51, MaxLat: 36.5}

const fireCSVHeader = "latitude,longitude,bright_ti4,scan,track,acq_date,acq_time,satellite,confidence,version\n"

func fireServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFireClient(baseURL string) *FireFeedClient {
	return NewFireFeedClient(baseURL, 5*time.Second, observability.NewMetricsForTesting())
}

func TestFireFeed_ParsesRows(t *testing.T) {
	body := fireCSVHeader +
		"31.5,-99.2,330.5,0.4,0.4,2026-08-30,1430,N,high,2.0NRT\n" +
		"30.1,-97.8,312.1,0.4,0.4,2026-08-30,1430,N,nominal,2.0NRT\n"
	srv := fireServer(t, body)

	detections := newFireClient(srv.URL).Fetch(context.Background(), texasBBox, 1)

	if len(detections) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(detections))
	}
	d := detections[0]
	if d.Point.Latitude != 31.5 || d.Point.Longitude != -99.2 {
		t.Errorf("unexpected coordinates: %+v", d.Point)
	}
	if d.Brightness != "330.5" || d.AcquiredDate != "2026-08-30" || d.Confidence != "high" {
		t.Errorf("unexpected fields: %+v", d)
	}
}

func TestFireFeed_DropsPointsOutsideBBox(t *testing.T) {
	body := fireCSVHeader +
		"0,0,330.5,0.4,0.4,2026-08-30,1430,N,high,2.0NRT\n" +
		"31.5,-99.2,330.5,0.4,0.4,2026-08-30,1430,N,high,2.0NRT\n"
	srv := fireServer(t, body)

	detections := newFireClient(srv.URL).Fetch(context.Background(), texasBBox, 1)

	if len(detections) != 1 {
		t.Fatalf("expected 1 detection after bbox filter, got %d", len(detections))
	}
	if detections[0].Point.Latitude != 31.5 {
		t.Errorf("wrong detection survived: %+v", detections[0].Point)
	}
}

func TestFireFeed_ShortRowReportsUnknown(t *testing.T) {
	// 4 fields: enough for a detection, not enough for metadata.
	body := fireCSVHeader + "31.5,-99.2,330.5,0.4\n"
	srv := fireServer(t, body)

	detections := newFireClient(srv.URL).Fetch(context.Background(), texasBBox, 1)

	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}
	d := detections[0]
	if d.Brightness != "unknown" || d.AcquiredDate != "unknown" || d.Confidence != "unknown" {
		t.Errorf("expected unknown metadata for short row, got %+v", d)
	}
}

func TestFireFeed_SkipsMalformedRows(t *testing.T) {
	body := fireCSVHeader +
		"not-a-number,-99.2,330.5,0.4,0.4,2026-08-30,1430,N,high,2.0NRT\n" +
		"31.5\n" +
		"\n" +
		"31.5,-99.2,330.5,0.4,0.4,2026-08-30,1430,N,high,2.0NRT\n"
	srv := fireServer(t, body)

	detections := newFireClient(srv.URL).Fetch(context.Background(), texasBBox, 1)

	if len(detections) != 1 {
		t.Fatalf("expected malformed rows skipped, got %d detections", len(detections))
	}
}

func TestFireFeed_ServerErrorDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	detections := newFireClient(srv.URL).Fetch(context.Background(), texasBBox, 1)

	if len(detections) != 0 {
		t.Errorf("expected empty result on server error, got %d", len(detections))
	}
}

func TestFireFeed_UnreachableDegradesToEmpty(t *testing.T) {
	client := NewFireFeedClient("http://127.0.0.1:1", 500*time.Millisecond, observability.NewMetricsForTesting())

	detections := client.Fetch(context.Background(), texasBBox, 1)

	if len(detections) != 0 {
		t.Errorf("expected empty result when unreachable, got %d", len(detections))
	}
}

func TestFireFeed_WindowDaysInURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(fireCSVHeader))
	}))
	t.Cleanup(srv.Close)

	newFireClient(srv.URL).Fetch(context.Background(), texasBBox, 3)

	if gotPath != "/3" {
		t.Errorf("expected window days appended to path, got %q", gotPath)
	}
}
