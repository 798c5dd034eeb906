package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/localnerve/musicdb/internal/models"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/testutil"
	"github.com/localnerve/musicdb/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func requireStatus(t *testing.T, err error, code int) {
	t.Helper()
	var customErr *types.CustomError
	require.True(t, errors.As(err, &customErr), "expected a CustomError, got %v", err)
	assert.Equal(t, code, customErr.Code)
}

func newStore(t *testing.T) *services.Store {
	return testutil.NewTestStore(t, services.StoreOptions{UserEmailPrecheck: true})
}

func createUser(t *testing.T, store *services.Store, email string) *models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), services.UserCreate{Email: email})
	require.NoError(t, err)
	return user
}

func TestNewPage(t *testing.T) {
	page, err := services.NewPage(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, services.Page{Offset: 0, Limit: 100}, page)

	page, err = services.NewPage(ptr(5), ptr(1000))
	require.NoError(t, err)
	assert.Equal(t, services.Page{Offset: 5, Limit: 100}, page)

	_, err = services.NewPage(ptr(-1), nil)
	requireStatus(t, err, 422)

	_, err = services.NewPage(nil, ptr(-3))
	requireStatus(t, err, 422)
}

func TestCreateThenGetUser(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	created, err := store.CreateUser(ctx, services.UserCreate{
		Email:     "ada@example.com",
		Role:      2,
		Firstname: ptr("Ada"),
		Lastname:  ptr("Lovelace"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := store.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, 2, got.Role)
	assert.Equal(t, "Ada", *got.Firstname)
	assert.Equal(t, "Lovelace", *got.Lastname)
	assert.Empty(t, got.Playlists)
	assert.NotNil(t, got.Playlists)
	assert.NotNil(t, got.Albums)
}

func TestGetUserEmbedsOwnedCollections(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	user := createUser(t, store, "owner@example.com")
	other := createUser(t, store, "other@example.com")

	_, err := store.CreatePlaylist(ctx, user.ID, services.PlaylistCreate{Name: "Morning"})
	require.NoError(t, err)
	_, err = store.CreatePlaylist(ctx, other.ID, services.PlaylistCreate{Name: "Not mine"})
	require.NoError(t, err)
	_, err = store.CreateAlbum(ctx, user.ID, services.AlbumCreate{Name: "Debut"})
	require.NoError(t, err)

	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Playlists, 1)
	assert.Equal(t, "Morning", got.Playlists[0].Name)
	require.Len(t, got.Albums, 1)
	assert.Equal(t, "Debut", got.Albums[0].Name)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("precheck", func(t *testing.T) {
		store := newStore(t)
		createUser(t, store, "a@x.com")
		_, err := store.CreateUser(ctx, services.UserCreate{Email: "a@x.com"})
		requireStatus(t, err, 409)
	})

	t.Run("unique index only", func(t *testing.T) {
		store := testutil.NewTestStore(t, services.StoreOptions{UserEmailPrecheck: false})
		createUser(t, store, "a@x.com")
		_, err := store.CreateUser(ctx, services.UserCreate{Email: "a@x.com"})
		require.Error(t, err)
		var customErr *types.CustomError
		assert.False(t, errors.As(err, &customErr), "storage fault should not be mapped")
	})
}

func TestUpdateUserPartial(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for i, names := range [][2]*string{
		{ptr("Grace"), ptr("Hopper")},
		{nil, ptr("Hopper")},
		{nil, nil},
	} {
		user, err := store.CreateUser(ctx, services.UserCreate{
			Email:     fmt.Sprintf("user%d@example.com", i),
			Firstname: names[0],
			Lastname:  names[1],
		})
		require.NoError(t, err)

		updated, err := store.UpdateUser(ctx, user.ID, services.UserUpdate{Role: types.Some(7)})
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Role)
		assert.Equal(t, names[0], updated.Firstname)
		assert.Equal(t, names[1], updated.Lastname)
		assert.Equal(t, user.Email, updated.Email)
	}
}

func TestUpdateUserNullClearsField(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	user, err := store.CreateUser(ctx, services.UserCreate{Email: "n@x.com", Role: 1, Firstname: ptr("N")})
	require.NoError(t, err)

	updated, err := store.UpdateUser(ctx, user.ID, services.UserUpdate{
		Firstname: types.Optional[string]{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Firstname)
	assert.Equal(t, 1, updated.Role)

	_, err = store.UpdateUser(ctx, user.ID, services.UserUpdate{Role: types.Optional[int]{Set: true}})
	requireStatus(t, err, 422)

	_, err = store.UpdateUser(ctx, user.ID+100, services.UserUpdate{Role: types.Some(1)})
	requireStatus(t, err, 404)
}

func TestDeleteThenGet(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	user := createUser(t, store, "d@x.com")
	playlist, err := store.CreatePlaylist(ctx, user.ID, services.PlaylistCreate{Name: "P"})
	require.NoError(t, err)
	album, err := store.CreateAlbum(ctx, user.ID, services.AlbumCreate{Name: "A"})
	require.NoError(t, err)
	song, err := store.CreateAlbumSong(ctx, album.ID, services.SongCreate{Name: "S", DurationInSec: decimal.NewFromInt(60)})
	require.NoError(t, err)

	require.NoError(t, store.DeleteOwnedPlaylist(ctx, user.ID, playlist.ID))
	_, err = store.GetOwnedPlaylist(ctx, user.ID, playlist.ID)
	requireStatus(t, err, 404)

	require.NoError(t, store.DeleteSong(ctx, song.ID))
	_, err = store.GetSong(ctx, song.ID)
	requireStatus(t, err, 404)

	require.NoError(t, store.DeleteAlbum(ctx, album.ID))
	_, err = store.GetAlbum(ctx, album.ID)
	requireStatus(t, err, 404)

	require.NoError(t, store.DeleteUser(ctx, user.ID))
	_, err = store.GetUser(ctx, user.ID)
	requireStatus(t, err, 404)

	requireStatus(t, store.DeleteUser(ctx, user.ID), 404)
}

func TestDeleteParentKeepsChildren(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	user := createUser(t, store, "parent@x.com")
	album, err := store.CreateAlbum(ctx, user.ID, services.AlbumCreate{Name: "A"})
	require.NoError(t, err)
	song, err := store.CreateAlbumSong(ctx, album.ID, services.SongCreate{Name: "S"})
	require.NoError(t, err)
	playlist, err := store.CreatePlaylist(ctx, user.ID, services.PlaylistCreate{Name: "P"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteAlbum(ctx, album.ID))
	orphan, err := store.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.AlbumID)

	require.NoError(t, store.DeleteUser(ctx, user.ID))
	var kept models.Playlist
	require.NoError(t, store.DB().First(&kept, playlist.ID).Error)
	assert.Nil(t, kept.OwnerID)
}

func TestListWindow(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	const total = 7
	for i := 0; i < total; i++ {
		createUser(t, store, fmt.Sprintf("u%d@x.com", i))
	}

	windows := []struct{ offset, limit int }{
		{0, 100}, {0, 3}, {3, 3}, {6, 3}, {7, 3}, {20, 5}, {2, 0}, {0, 1000},
	}
	for _, w := range windows {
		page, err := services.NewPage(ptr(w.offset), ptr(w.limit))
		require.NoError(t, err)

		users, count, err := store.ListUsers(ctx, page)
		require.NoError(t, err)
		assert.EqualValues(t, total, count)

		want := min(page.Limit, max(0, total-w.offset))
		assert.Len(t, users, want, "offset=%d limit=%d", w.offset, w.limit)
		if want > 0 {
			assert.Equal(t, fmt.Sprintf("u%d@x.com", w.offset), users[0].Email)
		}
	}
}

func TestPlaylistOwnershipScope(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	owner := createUser(t, store, "owner@x.com")
	intruder := createUser(t, store, "intruder@x.com")
	playlist, err := store.CreatePlaylist(ctx, owner.ID, services.PlaylistCreate{Name: "Mine"})
	require.NoError(t, err)

	_, err = store.GetOwnedPlaylist(ctx, intruder.ID, playlist.ID)
	requireStatus(t, err, 404)
	_, err = store.UpdateOwnedPlaylist(ctx, intruder.ID, playlist.ID, services.PlaylistUpdate{Name: types.Some("Stolen")})
	requireStatus(t, err, 404)
	requireStatus(t, store.DeleteOwnedPlaylist(ctx, intruder.ID, playlist.ID), 404)

	updated, err := store.UpdateOwnedPlaylist(ctx, owner.ID, playlist.ID, services.PlaylistUpdate{Name: types.Some("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	_, err = store.CreatePlaylist(ctx, 999, services.PlaylistCreate{Name: "Nobody"})
	requireStatus(t, err, 404)
}

func TestPlaylistMembership(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	user := createUser(t, store, "m@x.com")
	playlist, err := store.CreatePlaylist(ctx, user.ID, services.PlaylistCreate{Name: "Mix"})
	require.NoError(t, err)
	song, err := store.CreateSong(ctx, services.SongCreate{Name: "Track", DurationInSec: decimal.RequireFromString("181.256")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("181.26").Equal(song.DurationInSec))

	detail, err := store.AddSongToPlaylist(ctx, user.ID, playlist.ID, song.ID)
	require.NoError(t, err)
	require.Len(t, detail.Songs, 1)

	_, err = store.AddSongToPlaylist(ctx, user.ID, playlist.ID, song.ID)
	requireStatus(t, err, 409)

	var links int64
	require.NoError(t, store.DB().Model(&models.PlaylistSong{}).Count(&links).Error)
	assert.EqualValues(t, 1, links)

	detail, err = store.RemoveSongFromPlaylist(ctx, user.ID, playlist.ID, song.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Songs)

	_, err = store.RemoveSongFromPlaylist(ctx, user.ID, playlist.ID, song.ID)
	requireStatus(t, err, 409)

	_, err = store.AddSongToPlaylist(ctx, user.ID, playlist.ID, song.ID+50)
	requireStatus(t, err, 404)
	_, err = store.AddSongToPlaylist(ctx, user.ID, playlist.ID+50, song.ID)
	requireStatus(t, err, 404)
}

func TestMembershipEndsAddedOnce(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	user := createUser(t, store, "seq@x.com")
	playlist, err := store.CreatePlaylist(ctx, user.ID, services.PlaylistCreate{Name: "Seq"})
	require.NoError(t, err)
	song, err := store.CreateSong(ctx, services.SongCreate{Name: "Loop"})
	require.NoError(t, err)

	ops := []bool{true, true, false, true, false, false, true, true}
	for _, add := range ops {
		if add {
			_, _ = store.AddSongToPlaylist(ctx, user.ID, playlist.ID, song.ID)
		} else {
			_, _ = store.RemoveSongFromPlaylist(ctx, user.ID, playlist.ID, song.ID)
		}
	}

	detail, err := store.GetOwnedPlaylist(ctx, user.ID, playlist.ID)
	require.NoError(t, err)
	require.Len(t, detail.Songs, 1)
	assert.Equal(t, song.ID, detail.Songs[0].ID)
}

func TestDeleteSongRemovesMemberships(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	user := createUser(t, store, "s@x.com")
	playlist, err := store.CreatePlaylist(ctx, user.ID, services.PlaylistCreate{Name: "P"})
	require.NoError(t, err)
	song, err := store.CreateSong(ctx, services.SongCreate{Name: "Gone"})
	require.NoError(t, err)
	_, err = store.AddSongToPlaylist(ctx, user.ID, playlist.ID, song.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteSong(ctx, song.ID))

	detail, err := store.GetOwnedPlaylist(ctx, user.ID, playlist.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Songs)
}

func TestAlbumSongs(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	user := createUser(t, store, "band@x.com")
	album, err := store.CreateAlbum(ctx, user.ID, services.AlbumCreate{Name: "LP"})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := store.CreateAlbumSong(ctx, album.ID, services.SongCreate{
			Name:          fmt.Sprintf("Side A %d", i),
			DurationInSec: decimal.NewFromInt(int64(120 * i)),
		})
		require.NoError(t, err)
	}
	_, err = store.CreateSong(ctx, services.SongCreate{Name: "Single"})
	require.NoError(t, err)

	songs, total, err := store.ListAlbumSongs(ctx, album.ID, services.Page{Offset: 1, Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, songs, 2)
	assert.Equal(t, "Side A 2", songs[0].Name)

	detail, err := store.GetAlbum(ctx, album.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Songs, 3)

	_, _, err = store.ListAlbumSongs(ctx, album.ID+10, services.Page{Limit: 100})
	requireStatus(t, err, 404)
	_, err = store.CreateAlbumSong(ctx, album.ID+10, services.SongCreate{Name: "Lost"})
	requireStatus(t, err, 404)
	_, err = store.CreateAlbum(ctx, user.ID+10, services.AlbumCreate{Name: "Nobody"})
	requireStatus(t, err, 404)
}

func TestUpdateSongAndAlbum(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	user := createUser(t, store, "edit@x.com")
	album, err := store.CreateAlbum(ctx, user.ID, services.AlbumCreate{Name: "Old"})
	require.NoError(t, err)
	song, err := store.CreateSong(ctx, services.SongCreate{Name: "Loose", DurationInSec: decimal.NewFromFloat(90.5)})
	require.NoError(t, err)

	moved, err := store.UpdateSong(ctx, song.ID, services.SongUpdate{AlbumID: types.Some(album.ID)})
	require.NoError(t, err)
	require.NotNil(t, moved.AlbumID)
	assert.Equal(t, album.ID, *moved.AlbumID)
	assert.Equal(t, "Loose", moved.Name)
	assert.True(t, decimal.NewFromFloat(90.5).Equal(moved.DurationInSec))

	_, err = store.UpdateSong(ctx, song.ID, services.SongUpdate{AlbumID: types.Some(album.ID + 10)})
	requireStatus(t, err, 404)

	detached, err := store.UpdateSong(ctx, song.ID, services.SongUpdate{AlbumID: types.Optional[uint]{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, detached.AlbumID)

	renamed, err := store.UpdateAlbum(ctx, album.ID, services.AlbumUpdate{Name: types.Some("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", renamed.Name)
	require.NotNil(t, renamed.OwnerID)
	assert.Equal(t, user.ID, *renamed.OwnerID)

	_, err = store.UpdateAlbum(ctx, album.ID, services.AlbumUpdate{OwnerID: types.Some(user.ID + 10)})
	requireStatus(t, err, 404)
}
