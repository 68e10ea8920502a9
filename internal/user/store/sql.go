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
	sqliteutil "github.com/artflow/artflow/internal/common/sqlite"
	"github.com/artflow/artflow/internal/db"
	"github.com/artflow/artflow/internal/db/dialect"
	"github.com/artflow/artflow/internal/user/models"
)

// SQLRepository persists users and settings in SQLite or PostgreSQL.
// Writes go through the single-writer pool, reads through the reader pool.
type SQLRepository struct {
	db *sqlx.DB
	ro *sqlx.DB
}

var _ Repository = (*SQLRepository)(nil)

// NewSQLRepository creates the repository and ensures the schema exists.
func NewSQLRepository(pool *db.Pool) (*SQLRepository, error) {
	r := &SQLRepository{db: pool.Writer(), ro: pool.Reader()}
	if err := r.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize user schema: %w", err)
	}
	return r, nil
}

func (r *SQLRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_settings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		dark_mode INTEGER NOT NULL DEFAULT 0,
		language TEXT NOT NULL DEFAULT 'en',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return err
	}
	return r.migrate()
}

// migrate applies idempotent column additions for databases created by
// earlier releases.
func (r *SQLRepository) migrate() error {
	if dialect.IsPostgres(r.db.DriverName()) {
		return nil
	}
	return sqliteutil.EnsureColumn(r.db.DB, "users", "name", "TEXT NOT NULL DEFAULT ''")
}

func (r *SQLRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.ro.GetContext(ctx, &user, r.ro.Rebind(`
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNoRecord, id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.ro.GetContext(ctx, &user, r.ro.Rebind(`
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE email = ?
	`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNoRecord, email)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLRepository) CreateSettings(ctx context.Context, settings *models.Settings) error {
	if settings.ID == "" {
		settings.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	settings.CreatedAt = now
	settings.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO user_settings (id, user_id, dark_mode, language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), settings.ID, settings.UserID, dialect.BoolToInt(settings.DarkMode), settings.Language,
		settings.CreatedAt, settings.UpdatedAt)
	return err
}

func (r *SQLRepository) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	var settings models.Settings
	err := r.ro.GetContext(ctx, &settings, r.ro.Rebind(`
		SELECT id, user_id, dark_mode, language, created_at, updated_at
		FROM user_settings WHERE user_id = ?
	`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: settings for user %s", apperr.ErrNoRecord, userID)
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SQLRepository) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE user_settings
		SET dark_mode = ?, language = ?, updated_at = ?
		WHERE user_id = ?
	`), dialect.BoolToInt(settings.DarkMode), settings.Language, settings.UpdatedAt, settings.UserID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: settings for user %s", apperr.ErrNoRecord, settings.UserID)
	}
	return nil
}

func (r *SQLRepository) DeleteSettings(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM user_settings WHERE user_id = ?
	`), userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: settings for user %s", apperr.ErrNoRecord, userID)
	}
	return nil
}
