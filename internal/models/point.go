package models

import "time"

// Point is a user-created map point persisted by the CRUD shell. Unlike the
// hazard pipeline's ephemeral detections these have identity and survive
// restarts.
type Point struct {
	ID         int64
	Name       string
	Latitude   float64
	Longitude  float64
	Properties map[string]any
	CreatedAt  time.Time
}
