package models

import "time"

// User is an account that owns prompts, projects and settings.
// The password hash never leaves the backend.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Settings holds per-user UI preferences. Exactly one row exists per user.
type Settings struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	DarkMode  bool      `db:"dark_mode" json:"darkMode"`
	Language  string    `db:"language" json:"language"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DefaultSettings returns the preferences a fresh account starts with.
func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:   userID,
		DarkMode: false,
		Language: "en",
	}
}
