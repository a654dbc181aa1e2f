package remote

import (
	"context"

	"setlist-service/internal/model"
)

// Offline is the Store used when no database is configured. Every call
// fails with ErrUnavailable so callers keep their local state.
type Offline struct{}

func (Offline) SaveSong(context.Context, string, model.Song) (string, error) {
	return "", ErrUnavailable
}
func (Offline) UpdateSong(context.Context, string, string, model.Song) error { return ErrUnavailable }
func (Offline) DeleteSong(context.Context, string, string) error             { return ErrUnavailable }
func (Offline) ListSongs(context.Context, string, string) ([]model.Song, error) {
	return nil, ErrUnavailable
}
func (Offline) SaveLibrarySnapshot(context.Context, string, []model.Song) ([]string, error) {
	return nil, ErrUnavailable
}
func (Offline) DeleteSongsByArtist(context.Context, string, string) (int, error) {
	return 0, ErrUnavailable
}
func (Offline) SaveArtist(context.Context, string, string) (string, error) { return "", ErrUnavailable }
func (Offline) ListArtists(context.Context, string) ([]model.Artist, error) {
	return nil, ErrUnavailable
}
func (Offline) DeleteArtist(context.Context, string, string) error { return ErrUnavailable }
func (Offline) SaveLiveEvent(context.Context, string, model.LiveEvent) (string, error) {
	return "", ErrUnavailable
}
func (Offline) UpdateLiveEvent(context.Context, string, string, model.LiveEvent) error {
	return ErrUnavailable
}
func (Offline) ListLiveEvents(context.Context, string) ([]model.LiveEvent, error) {
	return nil, ErrUnavailable
}
func (Offline) DeleteLiveEvent(context.Context, string, string) error { return ErrUnavailable }
func (Offline) SaveDraftLiveEvent(context.Context, string, model.LiveEvent) (string, error) {
	return "", ErrUnavailable
}
func (Offline) LoadDraftLiveEvent(context.Context, string, string) (*model.LiveEvent, error) {
	return nil, ErrUnavailable
}
