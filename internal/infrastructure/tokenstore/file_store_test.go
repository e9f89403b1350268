package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

func testCredential(expiresIn time.Duration) *seller.Credential {
	now := time.Now().UTC().Truncate(time.Second)
	return &seller.Credential{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-def",
		TokenType:    "Bearer",
		Scope:        "offline_access read write",
		SellerID:     "seller-1",
		ObtainedAt:   now,
		ExpiresAt:    now.Add(expiresIn),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	store := NewFileStore(path)
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)

	cred := testCredential(6 * time.Hour)
	require.NoError(t, store.Save(ctx, cred))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cred.AccessToken, loaded.AccessToken)
	assert.Equal(t, cred.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, cred.SellerID, loaded.SellerID)
	assert.True(t, cred.ExpiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(context.Background(), testCredential(time.Hour)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testCredential(time.Hour)))

	updated := testCredential(2 * time.Hour)
	updated.AccessToken = "access-new"
	require.NoError(t, store.Save(ctx, updated))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-new", loaded.AccessToken)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCredential)
}

func TestFileStoreClearMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	assert.NoError(t, store.Clear(context.Background()))
}
