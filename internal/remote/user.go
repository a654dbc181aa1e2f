package remote

import (
	"context"

	"setlist-service/internal/model"
)

// UserStore binds a Store to one signed-in user. A zero uid makes every
// call fail with ErrUnauthenticated.
type UserStore struct {
	store Store
	uid   string
}

func ForUser(store Store, uid string) *UserStore {
	return &UserStore{store: store, uid: uid}
}

func (u *UserStore) UserID() string { return u.uid }

func (u *UserStore) SaveSong(ctx context.Context, song model.Song) (string, error) {
	return u.store.SaveSong(ctx, u.uid, song)
}

func (u *UserStore) UpdateSong(ctx context.Context, id string, song model.Song) error {
	return u.store.UpdateSong(ctx, u.uid, id, song)
}

func (u *UserStore) DeleteSong(ctx context.Context, id string) error {
	return u.store.DeleteSong(ctx, u.uid, id)
}

func (u *UserStore) ListSongs(ctx context.Context, artist string) ([]model.Song, error) {
	return u.store.ListSongs(ctx, u.uid, artist)
}

func (u *UserStore) SaveLibrarySnapshot(ctx context.Context, songs []model.Song) ([]string, error) {
	return u.store.SaveLibrarySnapshot(ctx, u.uid, songs)
}

func (u *UserStore) DeleteSongsByArtist(ctx context.Context, artist string) (int, error) {
	return u.store.DeleteSongsByArtist(ctx, u.uid, artist)
}

func (u *UserStore) SaveArtist(ctx context.Context, name string) (string, error) {
	return u.store.SaveArtist(ctx, u.uid, name)
}

func (u *UserStore) ListArtists(ctx context.Context) ([]model.Artist, error) {
	return u.store.ListArtists(ctx, u.uid)
}

func (u *UserStore) DeleteArtist(ctx context.Context, id string) error {
	return u.store.DeleteArtist(ctx, u.uid, id)
}

func (u *UserStore) SaveLiveEvent(ctx context.Context, ev model.LiveEvent) (string, error) {
	return u.store.SaveLiveEvent(ctx, u.uid, ev)
}

func (u *UserStore) UpdateLiveEvent(ctx context.Context, id string, ev model.LiveEvent) error {
	return u.store.UpdateLiveEvent(ctx, u.uid, id, ev)
}

func (u *UserStore) ListLiveEvents(ctx context.Context) ([]model.LiveEvent, error) {
	return u.store.ListLiveEvents(ctx, u.uid)
}

func (u *UserStore) DeleteLiveEvent(ctx context.Context, id string) error {
	return u.store.DeleteLiveEvent(ctx, u.uid, id)
}

func (u *UserStore) SaveDraftLiveEvent(ctx context.Context, ev model.LiveEvent) (string, error) {
	return u.store.SaveDraftLiveEvent(ctx, u.uid, ev)
}

func (u *UserStore) LoadDraftLiveEvent(ctx context.Context, artist string) (*model.LiveEvent, error) {
	return u.store.LoadDraftLiveEvent(ctx, u.uid, artist)
}
