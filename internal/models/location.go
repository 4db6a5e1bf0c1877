package models

import "time"

const (
	LocationPending  = "pending"
	LocationApproved = "approved"
	LocationRejected = "rejected"
)

type Location struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Country     string    `db:"country" json:"country"`
	City        string    `db:"city" json:"city"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	Photo       string    `db:"photo" json:"photo"`
	Status      string    `db:"status" json:"status"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	// Aggregated from reviews on read, not stored.
	AvgRating   float64 `db:"avg_rating" json:"avg_rating"`
	ReviewCount int64   `db:"review_count" json:"review_count"`
}
