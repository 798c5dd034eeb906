package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/musicdb/internal/database"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/testutil"
	"github.com/localnerve/musicdb/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWithMariaDB runs the store against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	runContainerSuite(t, "mariadb")
}

// TestWithPostgres runs the store against a real PostgreSQL container
func TestWithPostgres(t *testing.T) {
	runContainerSuite(t, "postgres")
}

func runContainerSuite(t *testing.T, dbType string) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	spec := testutil.DatabaseSpec{
		Type:         dbType,
		Image:        testutil.DefaultImage(dbType),
		Database:     "testdb",
		User:         "testuser",
		Password:     "testpass",
		RootPassword: "rootpass",
	}

	container, err := testutil.StartDatabase(ctx, spec)
	if err != nil {
		t.Fatalf("Failed to start %s container: %v", dbType, err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate %s container: %v", dbType, err)
		}
	}()

	container.Config.DBLogLevel = "silent"
	db, err := database.Connect(container.Config)
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.AutoMigrate(db), "migration must be idempotent")

	store := services.NewStore(db, services.StoreOptions{UserEmailPrecheck: true})

	user, err := store.CreateUser(ctx, services.UserCreate{Email: "it@example.com", Role: 1})
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, services.UserCreate{Email: "it@example.com"})
	var customErr *types.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, 409, customErr.Code)

	unchecked := services.NewStore(db, services.StoreOptions{UserEmailPrecheck: false})
	_, err = unchecked.CreateUser(ctx, services.UserCreate{Email: "it@example.com"})
	require.Error(t, err, "unique index must reject the duplicate")

	album, err := store.CreateAlbum(ctx, user.ID, services.AlbumCreate{Name: "Live"})
	require.NoError(t, err)
	song, err := store.CreateAlbumSong(ctx, album.ID, services.SongCreate{
		Name:          "Encore",
		DurationInSec: decimal.RequireFromString("312.456"),
	})
	require.NoError(t, err)

	stored, err := store.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("312.46").Equal(stored.DurationInSec), "got %s", stored.DurationInSec)

	playlist, err := store.CreatePlaylist(ctx, user.ID, services.PlaylistCreate{Name: "Set list"})
	require.NoError(t, err)
	_, err = store.AddSongToPlaylist(ctx, user.ID, playlist.ID, song.ID)
	require.NoError(t, err)
	_, err = store.AddSongToPlaylist(ctx, user.ID, playlist.ID, song.ID)
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, 409, customErr.Code)

	songs, total, err := store.ListAlbumSongs(ctx, album.ID, services.Page{Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, songs, 1)

	require.NoError(t, store.DeleteAlbum(ctx, album.ID))
	require.NoError(t, store.DeleteUser(ctx, user.ID))

	orphan, err := store.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.AlbumID)

	detail, err := store.GetOwnedPlaylist(ctx, user.ID, playlist.ID)
	assert.Nil(t, detail)
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, 404, customErr.Code)

	require.NoError(t, store.DeleteSong(ctx, song.ID))
}
