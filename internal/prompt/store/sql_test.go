package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artflow/artflow/internal/common/apperr"
	"github.com/artflow/artflow/internal/common/config"
	"github.com/artflow/artflow/internal/db"
	"github.com/artflow/artflow/internal/prompt/models"
	usermodels "github.com/artflow/artflow/internal/user/models"
	userstore "github.com/artflow/artflow/internal/user/store"
)

func newTestRepo(t *testing.T) (*SQLRepository, *userstore.SQLRepository) {
	t.Helper()

	pool, err := db.Open(config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "artflow.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	// Users first, prompts reference them.
	users, err := userstore.NewSQLRepository(pool)
	require.NoError(t, err)

	repo, err := NewSQLRepository(pool)
	require.NoError(t, err)
	return repo, users
}

func createTestUser(t *testing.T, users *userstore.SQLRepository, email string) string {
	t.Helper()
	user := &usermodels.User{Email: email, Name: "Test User", PasswordHash: "x"}
	require.NoError(t, users.CreateUser(context.Background(), user))
	return user.ID
}

func createTestPrompt(t *testing.T, repo *SQLRepository, userID, title string, position int) *models.Prompt {
	t.Helper()
	prompt := &models.Prompt{
		UserID:   userID,
		Title:    title,
		Text:     "text for " + title,
		Position: position,
	}
	require.NoError(t, repo.Create(context.Background(), prompt))
	return prompt
}

func TestPromptCRUD(t *testing.T) {
	repo, users := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, users, "crud@example.com")

	created := createTestPrompt(t, repo, userID, "Morning pages", 0)
	require.NotEmpty(t, created.ID)

	got, err := repo.Get(ctx, created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Morning pages", got.Title)
	assert.Equal(t, "text for Morning pages", got.Text)
	assert.Nil(t, got.Saved)

	got.Title = "Evening pages"
	got.Position = 3
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.Get(ctx, created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Evening pages", updated.Title)
	assert.Equal(t, 3, updated.Position)

	require.NoError(t, repo.Delete(ctx, created.ID, userID))

	_, err = repo.Get(ctx, created.ID, userID)
	assert.ErrorIs(t, err, apperr.ErrNoRecord)

	err = repo.Delete(ctx, created.ID, userID)
	assert.ErrorIs(t, err, apperr.ErrNoRecord)
}

func TestPromptOwnershipScoping(t *testing.T) {
	repo, users := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, users, "owner@example.com")
	other := createTestUser(t, users, "other@example.com")

	prompt := createTestPrompt(t, repo, owner, "Private", 0)

	_, err := repo.Get(ctx, prompt.ID, other)
	assert.ErrorIs(t, err, apperr.ErrNoRecord)

	err = repo.Delete(ctx, prompt.ID, other)
	assert.ErrorIs(t, err, apperr.ErrNoRecord)

	err = repo.Update(ctx, &models.Prompt{ID: prompt.ID, UserID: other, Title: "Stolen"})
	assert.ErrorIs(t, err, apperr.ErrNoRecord)

	// Still readable by the owner, unchanged.
	got, err := repo.Get(ctx, prompt.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

func TestPromptListOrderAndSearch(t *testing.T) {
	repo, users := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, users, "list@example.com")

	createTestPrompt(t, repo, userID, "First idea", 2)
	time.Sleep(5 * time.Millisecond)
	createTestPrompt(t, repo, userID, "Second idea", 0)
	time.Sleep(5 * time.Millisecond)
	createTestPrompt(t, repo, userID, "Character sketch", 1)

	all, err := repo.List(ctx, userID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "First idea", all[0].Title)
	assert.Equal(t, "Second idea", all[1].Title)
	assert.Equal(t, "Character sketch", all[2].Title)

	matched, err := repo.List(ctx, userID, "idea")
	require.NoError(t, err)
	require.Len(t, matched, 2)

	matched, err = repo.List(ctx, userID, "sketch")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Character sketch", matched[0].Title)

	none, err := repo.List(ctx, userID, "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPromptReorder(t *testing.T) {
	repo, users := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, users, "reorder@example.com")

	a := createTestPrompt(t, repo, userID, "A", 0)
	b := createTestPrompt(t, repo, userID, "B", 1)
	c := createTestPrompt(t, repo, userID, "C", 2)

	require.NoError(t, repo.Reorder(ctx, userID, []ReorderItem{
		{ID: c.ID, Position: 0},
		{ID: a.ID, Position: 1},
		{ID: b.ID, Position: 2},
	}))

	got, err := repo.Get(ctx, c.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Position)

	got, err = repo.Get(ctx, b.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Position)
}

func TestPromptReorderUnknownIDRollsBack(t *testing.T) {
	repo, users := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, users, "rollback@example.com")

	a := createTestPrompt(t, repo, userID, "A", 0)
	b := createTestPrompt(t, repo, userID, "B", 1)

	err := repo.Reorder(ctx, userID, []ReorderItem{
		{ID: a.ID, Position: 5},
		{ID: "does-not-exist", Position: 6},
	})
	assert.ErrorIs(t, err, apperr.ErrNoRecord)

	// The first update must have been rolled back with the rest.
	got, err := repo.Get(ctx, a.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Position)

	got, err = repo.Get(ctx, b.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Position)
}

func TestPromptMarkSaved(t *testing.T) {
	repo, users := newTestRepo(t)
	ctx := context.Background()
	userID := createTestUser(t, users, "saved@example.com")

	prompt := createTestPrompt(t, repo, userID, "Keeper", 0)
	stamp := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.MarkSaved(ctx, prompt.ID, userID, stamp))

	got, err := repo.Get(ctx, prompt.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, got.Saved)
	assert.WithinDuration(t, stamp, *got.Saved, time.Second)

	err = repo.MarkSaved(ctx, "does-not-exist", userID, stamp)
	assert.ErrorIs(t, err, apperr.ErrNoRecord)
}
