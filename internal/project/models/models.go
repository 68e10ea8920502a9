package models

import "time"

// Step is one checklist entry inside a project.
type Step struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Project is an art project with a deadline and a step checklist.
// Steps are stored as a JSON column; the list is small and always read
// and written as a whole.
type Project struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Deadline    string    `db:"deadline" json:"deadline"`
	Status      string    `db:"status" json:"status"`
	Steps       []Step    `db:"-" json:"steps"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
