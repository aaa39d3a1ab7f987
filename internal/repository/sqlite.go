package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

// SQLiteDB implements PointRepository with plain latitude/longitude columns.
type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			properties TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_points_lat ON points(latitude);
		CREATE INDEX IF NOT EXISTS idx_points_lon ON points(longitude);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Add(ctx context.Context, p *models.Point) (*models.Point, error) {
	props := p.Properties
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encoding properties: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO points (name, latitude, longitude, properties)
		VALUES (?, ?, ?, ?)
		RETURNING id, name, latitude, longitude, properties, created_at`,
		p.Name, p.Latitude, p.Longitude, string(propsJSON))

	return scanPoint(row)
}

func (s *SQLiteDB) List(ctx context.Context) ([]models.Point, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, latitude, longitude, properties, created_at
		FROM points
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}
	defer rows.Close()

	return collectPoints(rows)
}

func (s *SQLiteDB) ListInBBox(ctx context.Context, bbox models.BoundingBox) ([]models.Point, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, latitude, longitude, properties, created_at
		FROM points
		WHERE longitude >= ? AND longitude <= ?
		  AND latitude >= ? AND latitude <= ?
		ORDER BY created_at DESC, id DESC`,
		bbox.MinLon, bbox.MaxLon, bbox.MinLat, bbox.MaxLat)
	if err != nil {
		return nil, fmt.Errorf("querying points in bbox: %w", err)
	}
	defer rows.Close()

	return collectPoints(rows)
}

func (s *SQLiteDB) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting point: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoint(row rowScanner) (*models.Point, error) {
	var (
		p         models.Point
		propsJSON sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Latitude, &p.Longitude, &propsJSON, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning point: %w", err)
	}
	p.Properties = map[string]any{}
	if propsJSON.Valid && propsJSON.String != "" {
		if err := json.Unmarshal([]byte(propsJSON.String), &p.Properties); err != nil {
			return nil, fmt.Errorf("decoding properties: %w", err)
		}
	}
	return &p, nil
}

func collectPoints(rows *sql.Rows) ([]models.Point, error) {
	var points []models.Point
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *p)
	}
	return points, rows.Err()
}
