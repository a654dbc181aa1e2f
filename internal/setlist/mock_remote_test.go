package setlist

import (
	"context"

	"github.com/stretchr/testify/mock"

	"setlist-service/internal/model"
)

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) SaveSong(ctx context.Context, song model.Song) (string, error) {
	args := m.Called(ctx, song)
	return args.String(0), args.Error(1)
}

func (m *MockRemote) UpdateSong(ctx context.Context, id string, song model.Song) error {
	args := m.Called(ctx, id, song)
	return args.Error(0)
}

func (m *MockRemote) DeleteSong(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRemote) ListSongs(ctx context.Context, artist string) ([]model.Song, error) {
	args := m.Called(ctx, artist)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Song), args.Error(1)
}

func (m *MockRemote) SaveLibrarySnapshot(ctx context.Context, songs []model.Song) ([]string, error) {
	args := m.Called(ctx, songs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRemote) DeleteSongsByArtist(ctx context.Context, artist string) (int, error) {
	args := m.Called(ctx, artist)
	return args.Int(0), args.Error(1)
}

func (m *MockRemote) SaveArtist(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockRemote) ListArtists(ctx context.Context) ([]model.Artist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Artist), args.Error(1)
}

func (m *MockRemote) DeleteArtist(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRemote) SaveLiveEvent(ctx context.Context, ev model.LiveEvent) (string, error) {
	args := m.Called(ctx, ev)
	return args.String(0), args.Error(1)
}

func (m *MockRemote) UpdateLiveEvent(ctx context.Context, id string, ev model.LiveEvent) error {
	args := m.Called(ctx, id, ev)
	return args.Error(0)
}

func (m *MockRemote) ListLiveEvents(ctx context.Context) ([]model.LiveEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LiveEvent), args.Error(1)
}

func (m *MockRemote) DeleteLiveEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRemote) SaveDraftLiveEvent(ctx context.Context, ev model.LiveEvent) (string, error) {
	args := m.Called(ctx, ev)
	return args.String(0), args.Error(1)
}

func (m *MockRemote) LoadDraftLiveEvent(ctx context.Context, artist string) (*model.LiveEvent, error) {
	args := m.Called(ctx, artist)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LiveEvent), args.Error(1)
}
