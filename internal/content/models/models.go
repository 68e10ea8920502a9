package models

import "time"

// Idea is one entry in the content calendar.
type Idea struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Platform  string    `db:"platform" json:"platform"`
	Deadline  string    `db:"deadline" json:"deadline"`
	Done      bool      `db:"done" json:"done"`
	Details   string    `db:"details" json:"details,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
