package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setlist-service/internal/model"
)

func setupMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewPostgresStore(mock), mock
}

func TestUnauthenticated(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()
	ctx := context.Background()

	_, err := s.SaveSong(ctx, "", model.Song{Title: "A"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, s.DeleteSong(ctx, "", "id"), ErrUnauthenticated)
	_, err = s.ListLiveEvents(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = ForUser(s, "").ListArtists(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSong(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO songs").
		WithArgs("u1", "Intro", 204, "https://x.org", "", "Foo", 3).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("song-1"))

	id, err := s.SaveSong(context.Background(), "u1", model.Song{
		Title: "Intro", DurationSec: 204, URL: "https://x.org", Artist: " Foo ", Order: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "song-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSong_NotFound(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE songs").
		WithArgs("u1", "missing", "T", 10, "", "", "", 0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateSong(context.Background(), "u1", "missing", model.Song{Title: "T", DurationSec: 10})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSongs(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, title, duration_sec").
		WithArgs("u1", "Foo").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "duration_sec", "url", "sheet_url", "artist", "sort_order"}).
			AddRow("s1", "A", 100, "example.com", "", "Foo", 0).
			AddRow("s2", "B", 200, "", "sheets.io/b", "Foo", 1))

	songs, err := s.ListSongs(context.Background(), "u1", " Foo ")
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "s1", songs[0].RemoteID)
	assert.Equal(t, "https://example.com", songs[0].URL)
	assert.Equal(t, model.SourceRemote, songs[0].Source)
	assert.Equal(t, "https://sheets.io/b", songs[1].SheetURL)
	assert.Equal(t, 1, songs[1].Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveLibrarySnapshot(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("ON CONFLICT").
		WithArgs("s1", "u1", "A", 100, "", "", "Foo", 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("s1"))
	mock.ExpectQuery("INSERT INTO songs").
		WithArgs("u1", "B", 200, "", "", "Foo", 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("s2"))
	mock.ExpectCommit()

	ids, err := s.SaveLibrarySnapshot(context.Background(), "u1", []model.Song{
		{Title: "A", DurationSec: 100, Artist: "Foo", RemoteID: "s1", Order: 0},
		{Title: "B", DurationSec: 200, Artist: "Foo", Order: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveLibrarySnapshot_RollsBackOnError(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO songs").
		WithArgs("u1", "A", 100, "", "", "", 0).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := s.SaveLibrarySnapshot(context.Background(), "u1", []model.Song{{Title: "A", DurationSec: 100}})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSongsByArtist(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	n, err := s.DeleteSongsByArtist(context.Background(), "u1", "  ")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	mock.ExpectExec("DELETE FROM songs").
		WithArgs("u1", "Foo").
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err = s.DeleteSongsByArtist(context.Background(), "u1", "Foo")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtists(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO artists").
		WithArgs("u1", "Foo").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("a1"))
	mock.ExpectQuery("SELECT id, name").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created"}).AddRow("a1", "Foo", int64(1700000000)))

	id, err := s.SaveArtist(context.Background(), "u1", " Foo ")
	require.NoError(t, err)
	assert.Equal(t, "a1", id)

	artists, err := s.ListArtists(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "Foo", artists[0].Name)
	require.NotNil(t, artists[0].CreatedAt)
	assert.Equal(t, int64(1700000000), *artists[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveLiveEvent_GeneratesID(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO live_events").
		WithArgs("u1", pgxmock.AnyArg(), "Spring", "2024-05-01", 30, "Foo", pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.SaveLiveEvent(context.Background(), "u1", model.LiveEvent{
		Title: "Spring", Date: "2024-05-01", SlotMinutes: 30, Artist: "Foo",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftLiveEvent(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO live_events").
		WithArgs("u1", "draft__Foo", "", "", 30, "Foo", pgxmock.AnyArg(), true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.SaveDraftLiveEvent(ctx, "u1", model.LiveEvent{Artist: "Foo", SlotMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, "draft__Foo", id)

	now := time.Now()
	cols := []string{"id", "title", "live_date", "slot_minutes", "artist", "items", "is_draft", "created_at", "updated_at"}
	mock.ExpectQuery("FROM live_events").
		WithArgs("u1", "draft__Foo").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("draft__Foo", "", "", 30, "Foo", []byte(`[{"title":"A","durationSec":60}]`), true, now, now))

	draft, err := s.LoadDraftLiveEvent(ctx, "u1", "Foo")
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.True(t, draft.IsDraft)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, "A", draft.Items[0].BaseTitle)

	mock.ExpectQuery("FROM live_events").
		WithArgs("u1", "draft__Bar").
		WillReturnError(pgx.ErrNoRows)

	draft, err = s.LoadDraftLiveEvent(ctx, "u1", "Bar")
	require.NoError(t, err)
	assert.Nil(t, draft)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLiveEvents(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	now := time.Now()
	cols := []string{"id", "title", "live_date", "slot_minutes", "artist", "items", "is_draft", "created_at", "updated_at"}
	mock.ExpectQuery("NOT is_draft").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("l2", "Newer", "2024-06-01", 40, "Foo", []byte(`[]`), false, now, now).
			AddRow("l1", "Older", "2024-05-01", 30, "Foo", []byte(nil), false, now.Add(-time.Hour), now))

	events, err := ForUser(s, "u1").ListLiveEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "l2", events[0].ID)
	assert.NotNil(t, events[1].Items)
	assert.Empty(t, events[1].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoMigrate(t *testing.T) {
	_, mock := setupMockStore(t)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS songs").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("ALTER TABLE songs").WillReturnResult(pgxmock.NewResult("ALTER", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS artists").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS live_events").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, AutoMigrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}
