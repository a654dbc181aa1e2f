// Package remote is the document store that mirrors a signed-in user's
// songs, artists and live events. Every call is scoped to a user id and
// fails with ErrUnauthenticated without one.
package remote

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"setlist-service/internal/model"
)

var (
	ErrUnauthenticated = errors.New("remote: not signed in")
	ErrNotFound        = errors.New("remote: not found")
	ErrUnavailable     = errors.New("remote: store unavailable")
)

// DB defines the interface for database operations.
// It is implemented by *pgxpool.Pool and can be mocked for testing.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Store interface {
	SaveSong(ctx context.Context, uid string, song model.Song) (string, error)
	UpdateSong(ctx context.Context, uid, id string, song model.Song) error
	DeleteSong(ctx context.Context, uid, id string) error
	ListSongs(ctx context.Context, uid, artist string) ([]model.Song, error)
	// SaveLibrarySnapshot upserts songs in order: songs with a RemoteID are
	// updated in place, the rest inserted. It returns one id per song.
	SaveLibrarySnapshot(ctx context.Context, uid string, songs []model.Song) ([]string, error)
	DeleteSongsByArtist(ctx context.Context, uid, artist string) (int, error)

	SaveArtist(ctx context.Context, uid, name string) (string, error)
	ListArtists(ctx context.Context, uid string) ([]model.Artist, error)
	DeleteArtist(ctx context.Context, uid, id string) error

	SaveLiveEvent(ctx context.Context, uid string, ev model.LiveEvent) (string, error)
	UpdateLiveEvent(ctx context.Context, uid, id string, ev model.LiveEvent) error
	// ListLiveEvents returns saved live events, most recent first. Drafts
	// are not included.
	ListLiveEvents(ctx context.Context, uid string) ([]model.LiveEvent, error)
	DeleteLiveEvent(ctx context.Context, uid, id string) error

	SaveDraftLiveEvent(ctx context.Context, uid string, ev model.LiveEvent) (string, error)
	// LoadDraftLiveEvent returns nil without error when the artist has no draft.
	LoadDraftLiveEvent(ctx context.Context, uid, artist string) (*model.LiveEvent, error)
}
