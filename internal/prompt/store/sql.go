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
	"github.com/artflow/artflow/internal/db"
	"github.com/artflow/artflow/internal/db/dialect"
	"github.com/artflow/artflow/internal/prompt/models"
)

// SQLRepository persists prompts in SQLite or PostgreSQL.
type SQLRepository struct {
	db *sqlx.DB
	ro *sqlx.DB
}

var _ Repository = (*SQLRepository)(nil)

// NewSQLRepository creates the repository and ensures the schema exists.
func NewSQLRepository(pool *db.Pool) (*SQLRepository, error) {
	r := &SQLRepository{db: pool.Writer(), ro: pool.Reader()}
	if err := r.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize prompt schema: %w", err)
	}
	return r, nil
}

func (r *SQLRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prompts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		saved TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_prompts_user ON prompts(user_id);
	`
	_, err := r.db.Exec(schema)
	return err
}

// List returns the user's prompts in creation order. When search is
// non-empty only prompts whose title or text match are returned.
func (r *SQLRepository) List(ctx context.Context, userID, search string) ([]*models.Prompt, error) {
	query := `
		SELECT id, user_id, title, text, position, saved, created_at, updated_at
		FROM prompts WHERE user_id = ?`
	args := []interface{}{userID}

	if search != "" {
		like := dialect.Like(r.ro.DriverName())
		query += fmt.Sprintf(" AND (title %s ? OR text %s ?)", like, like)
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY created_at ASC"

	prompts := []*models.Prompt{}
	if err := r.ro.SelectContext(ctx, &prompts, r.ro.Rebind(query), args...); err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *SQLRepository) Get(ctx context.Context, id, userID string) (*models.Prompt, error) {
	var prompt models.Prompt
	err := r.ro.GetContext(ctx, &prompt, r.ro.Rebind(`
		SELECT id, user_id, title, text, position, saved, created_at, updated_at
		FROM prompts WHERE id = ? AND user_id = ?
	`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: prompt %s", apperr.ErrNoRecord, id)
	}
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

func (r *SQLRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	if prompt.ID == "" {
		prompt.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	prompt.CreatedAt = now
	prompt.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO prompts (id, user_id, title, text, position, saved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), prompt.ID, prompt.UserID, prompt.Title, prompt.Text, prompt.Position, prompt.Saved,
		prompt.CreatedAt, prompt.UpdatedAt)
	return err
}

func (r *SQLRepository) Update(ctx context.Context, prompt *models.Prompt) error {
	prompt.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE prompts
		SET title = ?, text = ?, position = ?, saved = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`), prompt.Title, prompt.Text, prompt.Position, prompt.Saved, prompt.UpdatedAt,
		prompt.ID, prompt.UserID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: prompt %s", apperr.ErrNoRecord, prompt.ID)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM prompts WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: prompt %s", apperr.ErrNoRecord, id)
	}
	return nil
}

// Reorder applies all position changes in one transaction. Any item that
// does not belong to the user aborts the whole batch, leaving every
// position untouched.
func (r *SQLRepository) Reorder(ctx context.Context, userID string, items []ReorderItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	stmt := tx.Rebind(`
		UPDATE prompts SET position = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`)
	for _, item := range items {
		result, err := tx.ExecContext(ctx, stmt, item.Position, now, item.ID, userID)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: prompt %s", apperr.ErrNoRecord, item.ID)
		}
	}

	return tx.Commit()
}

// MarkSaved stamps the prompt's saved timestamp.
func (r *SQLRepository) MarkSaved(ctx context.Context, id, userID string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE prompts SET saved = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`), at, at, id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: prompt %s", apperr.ErrNoRecord, id)
	}
	return nil
}
