package repository

import (
	"context"
	"errors"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

// ErrNotFound is returned when a point id does not exist.
var ErrNotFound = errors.New("point not found")

// PointRepository stores user map points. The plain-coordinate SQLite
// implementation is the default; the interface leaves room for a backend
// with a native spatial type without touching the handlers.
type PointRepository interface {
	Add(ctx context.Context, p *models.Point) (*models.Point, error)
	List(ctx context.Context) ([]models.Point, error)
	ListInBBox(ctx context.Context, bbox models.BoundingBox) ([]models.Point, error)
	Delete(ctx context.Context, id int64) error
}
