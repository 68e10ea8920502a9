package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/artflow/artflow/internal/common/apperr"
	"github.com/artflow/artflow/internal/content/models"
	"github.com/artflow/artflow/internal/db"
	"github.com/artflow/artflow/internal/db/dialect"
)

// SQLRepository persists content ideas in SQLite or PostgreSQL.
type SQLRepository struct {
	db *sqlx.DB
	ro *sqlx.DB
}

var _ Repository = (*SQLRepository)(nil)

// NewSQLRepository creates the repository and ensures the schema exists.
func NewSQLRepository(pool *db.Pool) (*SQLRepository, error) {
	r := &SQLRepository{db: pool.Writer(), ro: pool.Reader()}
	if err := r.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize content schema: %w", err)
	}
	return r, nil
}

func (r *SQLRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS content_ideas (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		platform TEXT NOT NULL DEFAULT '',
		deadline TEXT NOT NULL DEFAULT '',
		done INTEGER NOT NULL DEFAULT 0,
		details TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_content_ideas_user ON content_ideas(user_id);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLRepository) List(ctx context.Context, userID string) ([]*models.Idea, error) {
	ideas := []*models.Idea{}
	err := r.ro.SelectContext(ctx, &ideas, r.ro.Rebind(`
		SELECT id, user_id, title, platform, deadline, done, details, created_at, updated_at
		FROM content_ideas WHERE user_id = ? ORDER BY deadline ASC, created_at ASC
	`), userID)
	if err != nil {
		return nil, err
	}
	return ideas, nil
}

func (r *SQLRepository) Get(ctx context.Context, id, userID string) (*models.Idea, error) {
	var idea models.Idea
	err := r.ro.GetContext(ctx, &idea, r.ro.Rebind(`
		SELECT id, user_id, title, platform, deadline, done, details, created_at, updated_at
		FROM content_ideas WHERE id = ? AND user_id = ?
	`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: content idea %s", apperr.ErrNoRecord, id)
	}
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *SQLRepository) Create(ctx context.Context, idea *models.Idea) error {
	if idea.ID == "" {
		idea.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	idea.CreatedAt = now
	idea.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO content_ideas (id, user_id, title, platform, deadline, done, details, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), idea.ID, idea.UserID, idea.Title, idea.Platform, idea.Deadline,
		dialect.BoolToInt(idea.Done), idea.Details, idea.CreatedAt, idea.UpdatedAt)
	return err
}

func (r *SQLRepository) Update(ctx context.Context, idea *models.Idea) error {
	idea.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE content_ideas
		SET title = ?, platform = ?, deadline = ?, done = ?, details = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`), idea.Title, idea.Platform, idea.Deadline, dialect.BoolToInt(idea.Done), idea.Details,
		idea.UpdatedAt, idea.ID, idea.UserID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: content idea %s", apperr.ErrNoRecord, idea.ID)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM content_ideas WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: content idea %s", apperr.ErrNoRecord, id)
	}
	return nil
}
