package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/poker-club/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewJSONUserRepository(filepath.Join(t.TempDir(), "conf", "users.json"))

	_, err := repo.GetByUsername(ctx, "boss")
	require.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, repo.Create(ctx, &models.Account{Username: "boss", PasswordHash: "h1", IsAdmin: true}))
	require.NoError(t, repo.Create(ctx, &models.Account{Username: "alice", PasswordHash: "h2"}))
	assert.ErrorIs(t, repo.Create(ctx, &models.Account{Username: "boss"}), ErrUserUsernameConflict)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "boss", list[1].Username)

	require.NoError(t, repo.Update(ctx, &models.Account{Username: "alice", PasswordHash: "h3", Suspended: true}))
	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.Account{Username: "alice", PasswordHash: "h3", Suspended: true}, got)

	require.NoError(t, repo.Delete(ctx, "alice"))
	assert.ErrorIs(t, repo.Delete(ctx, "alice"), ErrUserNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.Account{Username: "alice"}), ErrUserNotFound)
}

func TestJSONUserRepository_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	content := `{"admin": {"password": "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", "is_admin": true}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := NewJSONUserRepository(path).GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
	assert.False(t, got.Suspended)
	assert.Len(t, got.PasswordHash, 64)
}
