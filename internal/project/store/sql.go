package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/artflow/artflow/internal/common/apperr"
	"github.com/artflow/artflow/internal/db"
	"github.com/artflow/artflow/internal/project/models"
)

// SQLRepository persists projects in SQLite or PostgreSQL.
type SQLRepository struct {
	db *sqlx.DB
	ro *sqlx.DB
}

var _ Repository = (*SQLRepository)(nil)

// NewSQLRepository creates the repository and ensures the schema exists.
func NewSQLRepository(pool *db.Pool) (*SQLRepository, error) {
	r := &SQLRepository{db: pool.Writer(), ro: pool.Reader()}
	if err := r.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize project schema: %w", err)
	}
	return r, nil
}

func (r *SQLRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		deadline TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'not-started',
		steps TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id);
	`
	_, err := r.db.Exec(schema)
	return err
}

// projectRow mirrors the table; steps stay as raw JSON until decoded.
type projectRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Deadline    string    `db:"deadline"`
	Status      string    `db:"status"`
	Steps       string    `db:"steps"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row *projectRow) toModel() (*models.Project, error) {
	project := &models.Project{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Description: row.Description,
		Deadline:    row.Deadline,
		Status:      row.Status,
		Steps:       []models.Step{},
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.Steps != "" && row.Steps != "[]" {
		if err := json.Unmarshal([]byte(row.Steps), &project.Steps); err != nil {
			return nil, fmt.Errorf("failed to decode steps for project %s: %w", row.ID, err)
		}
	}
	return project, nil
}

func encodeSteps(steps []models.Step) (string, error) {
	if steps == nil {
		steps = []models.Step{}
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *SQLRepository) List(ctx context.Context, userID string) ([]*models.Project, error) {
	rows := []*projectRow{}
	err := r.ro.SelectContext(ctx, &rows, r.ro.Rebind(`
		SELECT id, user_id, title, description, deadline, status, steps, created_at, updated_at
		FROM projects WHERE user_id = ? ORDER BY created_at ASC
	`), userID)
	if err != nil {
		return nil, err
	}

	projects := make([]*models.Project, 0, len(rows))
	for _, row := range rows {
		project, err := row.toModel()
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (r *SQLRepository) Get(ctx context.Context, id, userID string) (*models.Project, error) {
	var row projectRow
	err := r.ro.GetContext(ctx, &row, r.ro.Rebind(`
		SELECT id, user_id, title, description, deadline, status, steps, created_at, updated_at
		FROM projects WHERE id = ? AND user_id = ?
	`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: project %s", apperr.ErrNoRecord, id)
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *SQLRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	steps, err := encodeSteps(project.Steps)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO projects (id, user_id, title, description, deadline, status, steps, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), project.ID, project.UserID, project.Title, project.Description, project.Deadline,
		project.Status, steps, project.CreatedAt, project.UpdatedAt)
	return err
}

func (r *SQLRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()

	steps, err := encodeSteps(project.Steps)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE projects
		SET title = ?, description = ?, deadline = ?, status = ?, steps = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`), project.Title, project.Description, project.Deadline, project.Status, steps,
		project.UpdatedAt, project.ID, project.UserID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: project %s", apperr.ErrNoRecord, project.ID)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM projects WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: project %s", apperr.ErrNoRecord, id)
	}
	return nil
}
