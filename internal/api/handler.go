package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
	"github.com/mr1hm/go-fire-hazard-map/internal/repository"
	"github.com/mr1hm/go-fire-hazard-map/internal/risk"
)

// SnapshotBuilder is the hazard pipeline as the handlers see it.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context) (models.HazardSnapshot, error)
}

// CountyProvider serves the filtered boundary passthrough.
type CountyProvider interface {
	Boundaries(ctx context.Context) ([]json.RawMessage, error)
}

type Handler struct {
	builder  SnapshotBuilder
	repo     repository.PointRepository
	counties CountyProvider
}

func NewHandler(builder SnapshotBuilder, repo repository.PointRepository, counties CountyProvider) *Handler {
	return &Handler{
		builder:  builder,
		repo:     repo,
		counties: counties,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.root)
	r.GET("/health", h.health)

	r.GET("/api/hazards", h.getHazards)
	r.GET("/api/hazards/alerts", h.getHazardAlerts)
	r.GET("/api/hazards/summary", h.getHazardSummary)
	r.GET("/api/counties", h.getCounties)

	r.POST("/api/points", h.createPoint)
	r.GET("/api/points", h.getPoints)
	r.GET("/api/points/bbox", h.getPointsInBBox)
	r.DELETE("/api/points/:id", h.deletePoint)
	r.POST("/api/upload/geojson", h.uploadGeoJSON)
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Fire Hazard Map API",
		"version": "1.0",
		"endpoints": gin.H{
			"hazards":  "/api/hazards",
			"alerts":   "/api/hazards/alerts",
			"summary":  "/api/hazards/summary",
			"counties": "/api/counties",
			"points":   "/api/points",
			"upload":   "/api/upload/geojson",
		},
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getHazards recomputes the snapshot from live sources on every request.
// A degraded snapshot (a source was down) is still a 200; only a contract
// failure in the pipeline becomes a 500.
func (h *Handler) getHazards(c *gin.Context) {
	snap, err := h.builder.BuildSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to build hazard snapshot",
		})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, snapshotToGeoJSON(snap))
}

func (h *Handler) getHazardAlerts(c *gin.Context) {
	snap, err := h.builder.BuildSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to build hazard snapshot",
		})
		return
	}

	summary := risk.Summarize(snap)
	c.JSON(http.StatusOK, gin.H{
		"alerts":       summary.Alerts,
		"generated_at": snap.GeneratedAt,
	})
}

func (h *Handler) getHazardSummary(c *gin.Context) {
	snap, err := h.builder.BuildSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to build hazard snapshot",
		})
		return
	}

	summary := risk.Summarize(snap)
	c.JSON(http.StatusOK, gin.H{
		"level_counts":      summary.LevelCounts,
		"active_fire_count": summary.ActiveFireCount,
		"alert_count":       len(summary.Alerts),
		"generated_at":      snap.GeneratedAt,
	})
}

func (h *Handler) getCounties(c *gin.Context) {
	features, err := h.counties.Boundaries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "county boundary service unavailable",
		})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, gin.H{
		"type":     "FeatureCollection",
		"features": features,
	})
}

type createPointRequest struct {
	Name       string         `json:"name" binding:"required"`
	Latitude   float64        `json:"latitude" binding:"min=-90,max=90"`
	Longitude  float64        `json:"longitude" binding:"min=-180,max=180"`
	Properties map[string]any `json:"properties"`
}

func (h *Handler) createPoint(c *gin.Context) {
	var req createPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid point payload"})
		return
	}

	created, err := h.repo.Add(c.Request.Context(), &models.Point{
		Name:       req.Name,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Properties: req.Properties,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create point"})
		return
	}

	c.JSON(http.StatusOK, pointToFeature(created))
}

func (h *Handler) getPoints(c *gin.Context) {
	points, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch points"})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, pointsToGeoJSON(points))
}

func (h *Handler) getPointsInBBox(c *gin.Context) {
	minx, err1 := parseCoord(c.Query("minx"))
	miny, err2 := parseCoord(c.Query("miny"))
	maxx, err3 := parseCoord(c.Query("maxx"))
	maxy, err4 := parseCoord(c.Query("maxy"))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minx, miny, maxx, maxy must be numbers"})
		return
	}

	bbox := models.BoundingBox{MinLon: minx, MinLat: miny, MaxLon: maxx, MaxLat: maxy}
	if !bbox.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bounding box"})
		return
	}

	points, err := h.repo.ListInBBox(c.Request.Context(), bbox)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch points"})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, pointsToGeoJSON(points))
}

func (h *Handler) deletePoint(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "point id must be an integer"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "point not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete point"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "point deleted", "id": id})
}

// uploadGeoJSON imports Point features from an uploaded FeatureCollection.
// Non-point geometries are skipped, matching the importer this replaces.
func (h *Handler) uploadGeoJSON(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open upload"})
		return
	}
	defer f.Close()

	imported, err := h.importFeatures(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "imported features",
		"count":   imported,
	})
}

type uploadFeature struct {
	Geometry struct {
		Type string `json:"type"`
		// Raw because non-point geometries nest their arrays deeper;
		// only Point coordinates are decoded.
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

func (h *Handler) importFeatures(ctx context.Context, r io.Reader) (int, error) {
	var fc struct {
		Features []uploadFeature `json:"features"`
	}
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return 0, errors.New("invalid GeoJSON payload")
	}

	imported := 0
	for _, feat := range fc.Features {
		if feat.Geometry.Type != "Point" {
			continue
		}
		var coords []float64
		if err := json.Unmarshal(feat.Geometry.Coordinates, &coords); err != nil || len(coords) < 2 {
			continue
		}
		name := "Unnamed"
		if n, ok := feat.Properties["name"].(string); ok && n != "" {
			name = n
		}
		_, err := h.repo.Add(ctx, &models.Point{
			Name:       name,
			Longitude:  coords[0],
			Latitude:   coords[1],
			Properties: feat.Properties,
		})
		if err != nil {
			return imported, errors.New("failed to store imported feature")
		}
		imported++
	}
	return imported, nil
}
