package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"setlist-service/internal/model"
)

func TestOffline_EveryCallUnavailable(t *testing.T) {
	ctx := context.Background()
	var s Store = Offline{}

	calls := map[string]func() error{
		"SaveSong":   func() error { _, err := s.SaveSong(ctx, "u1", model.Song{}); return err },
		"UpdateSong": func() error { return s.UpdateSong(ctx, "u1", "s1", model.Song{}) },
		"DeleteSong": func() error { return s.DeleteSong(ctx, "u1", "s1") },
		"ListSongs":  func() error { _, err := s.ListSongs(ctx, "u1", "Foo"); return err },
		"SaveLibrarySnapshot": func() error {
			_, err := s.SaveLibrarySnapshot(ctx, "u1", []model.Song{{Title: "a"}})
			return err
		},
		"DeleteSongsByArtist": func() error { _, err := s.DeleteSongsByArtist(ctx, "u1", "Foo"); return err },
		"SaveArtist":          func() error { _, err := s.SaveArtist(ctx, "u1", "Foo"); return err },
		"ListArtists":         func() error { _, err := s.ListArtists(ctx, "u1"); return err },
		"DeleteArtist":        func() error { return s.DeleteArtist(ctx, "u1", "a1") },
		"SaveLiveEvent":       func() error { _, err := s.SaveLiveEvent(ctx, "u1", model.LiveEvent{}); return err },
		"UpdateLiveEvent":     func() error { return s.UpdateLiveEvent(ctx, "u1", "l1", model.LiveEvent{}) },
		"ListLiveEvents":      func() error { _, err := s.ListLiveEvents(ctx, "u1"); return err },
		"DeleteLiveEvent":     func() error { return s.DeleteLiveEvent(ctx, "u1", "l1") },
		"SaveDraftLiveEvent":  func() error { _, err := s.SaveDraftLiveEvent(ctx, "u1", model.LiveEvent{}); return err },
		"LoadDraftLiveEvent":  func() error { _, err := s.LoadDraftLiveEvent(ctx, "u1", "Foo"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), ErrUnavailable)
		})
	}
}
