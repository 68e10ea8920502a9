package models

import "time"

// Prompt is a saved prompt idea. Position drives the manual ordering in
// the UI; Saved records when the user last stamped the prompt as kept.
type Prompt struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"userId"`
	Title     string     `db:"title" json:"title"`
	Text      string     `db:"text" json:"text"`
	Position  int        `db:"position" json:"order"`
	Saved     *time.Time `db:"saved" json:"saved"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}
