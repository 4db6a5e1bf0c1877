package models

import "time"

type Review struct {
	ID         int64     `db:"id" json:"id"`
	LocationID int64     `db:"location_id" json:"location_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	// Joined from users for display.
	AuthorName   string `db:"author_name" json:"author_name"`
	AuthorAvatar string `db:"author_avatar" json:"author_avatar"`
}
