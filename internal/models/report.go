package models

import "time"

const (
	ReportOpen      = "open"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"

	TargetLocation = "location"
	TargetReview   = "review"
)

type Report struct {
	ID         int64     `db:"id" json:"id"`
	Reference  string    `db:"reference" json:"reference"`
	TargetType string    `db:"target_type" json:"target_type"`
	TargetID   int64     `db:"target_id" json:"target_id"`
	Reason     string    `db:"reason" json:"reason"`
	Status     string    `db:"status" json:"status"`
	ReportedBy int64     `db:"reported_by" json:"reported_by"`
	ResolvedBy *int64    `db:"resolved_by" json:"resolved_by,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
