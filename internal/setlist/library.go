package setlist

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"setlist-service/internal/duration"
	"setlist-service/internal/model"
)

// NewSong is the input of AddSong. Duration, when set, takes precedence
// over Minutes and Seconds and accepts "m:ss", "mss" or plain seconds.
type NewSong struct {
	Title    string
	Minutes  int
	Seconds  int
	Duration string
	URL      string
	SheetURL string
}

// SongEdit is the input of an edit in either view. Duration is strict m:ss.
type SongEdit struct {
	Title    string
	Duration string
	URL      string
	SheetURL string
}

func (in NewSong) validate() (string, int, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", 0, invalid("title", "曲名を入力してください")
	}
	sec := duration.FromParts(in.Minutes, in.Seconds)
	if strings.TrimSpace(in.Duration) != "" {
		v, ok := duration.ParseCompact(in.Duration)
		if !ok {
			return "", 0, invalid("duration", "時間の形式が正しくありません")
		}
		sec = v
	}
	if sec <= 0 {
		return "", 0, invalid("duration", "時間を入力してください")
	}
	return title, sec, nil
}

func (in SongEdit) validate() (string, int, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", 0, invalid("title", "曲名を入力してください")
	}
	sec, ok := duration.ParseStrict(in.Duration)
	if !ok || sec <= 0 {
		return "", 0, invalid("duration", "時間は m:ss 形式で入力してください")
	}
	return title, sec, nil
}

func (e *Engine) songAt(index int) (*model.Song, error) {
	if index < 0 || index >= len(e.s.library) {
		return nil, ErrIndexOutOfRange
	}
	return e.s.library[index], nil
}

// AddSong appends a song for the current artist and mirrors it remotely.
func (e *Engine) AddSong(ctx context.Context, in NewSong) error {
	title, sec, err := in.validate()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.current == "" && len(e.s.artists) == 0 {
		return ErrNoArtist
	}
	song := &model.Song{
		Title:       title,
		DurationSec: sec,
		URL:         duration.NormalizeURL(in.URL),
		SheetURL:    duration.NormalizeURL(in.SheetURL),
		Artist:      e.s.current,
		Source:      model.SourceLocal,
		Order:       len(e.s.library),
	}
	e.s.library = append(e.s.library, song)
	e.s.libraryDirty = true
	e.persist()

	if !e.signedIn() {
		return nil
	}
	payload := *song
	var id string
	e.callRemote(func(r Remote) { id, err = r.SaveSong(ctx, payload) })
	if err != nil {
		e.log.Error("save song failed", zap.String("title", title), zap.Error(err))
		return nil
	}
	if e.hasSong(song) {
		song.RemoteID = id
		song.Source = model.SourceRemote
		e.persist()
	}
	return nil
}

// EditLibrarySong edits a library song and carries the change to every
// matching setlist entry.
func (e *Engine) EditLibrarySong(ctx context.Context, index int, in SongEdit) error {
	title, sec, err := in.validate()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	song, err := e.songAt(index)
	if err != nil {
		return err
	}
	prior := songIdentity(*song)
	song.Title = title
	song.DurationSec = sec
	song.URL = duration.NormalizeURL(in.URL)
	song.SheetURL = duration.NormalizeURL(in.SheetURL)
	e.s.libraryDirty = true

	if p := e.s.preview; p != nil {
		// The shared setlist on screen is not ours; the one behind it is.
		if propagateToSetlist(e.match, p.setlist, prior, *song) {
			p.setlistDirty = true
		}
	} else if propagateToSetlist(e.match, e.s.setlist, prior, *song) {
		e.s.setlistDirty = true
		e.recompute()
	}
	e.persist()

	if !e.signedIn() || song.RemoteID == "" {
		return nil
	}
	payload := *song
	e.callRemote(func(r Remote) { err = r.UpdateSong(ctx, payload.RemoteID, payload) })
	if err != nil {
		e.log.Error("update song failed", zap.String("id", payload.RemoteID), zap.Error(err))
	}
	return nil
}

func propagateToSetlist(match Matcher, items []model.SetlistEntry, prior Identity, song model.Song) bool {
	changed := false
	for i := range items {
		it := &items[i]
		if !match.Match(prior, entryIdentity(*it)) {
			continue
		}
		it.BaseTitle = song.Title
		it.DurationSec = song.DurationSec
		it.URL = song.URL
		it.SheetURL = song.SheetURL
		changed = true
	}
	return changed
}

func (e *Engine) propagateToLibrary(prior Identity, entry model.SetlistEntry) []model.Song {
	var changed []model.Song
	for _, s := range e.s.library {
		if !e.match.Match(prior, songIdentity(*s)) {
			continue
		}
		s.Title = entry.BaseTitle
		s.DurationSec = entry.DurationSec
		s.URL = entry.URL
		s.SheetURL = entry.SheetURL
		changed = append(changed, *s)
	}
	return changed
}

// DeleteLibrarySong removes a library song. Setlist entries copied from it
// stay.
func (e *Engine) DeleteLibrarySong(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	song, err := e.songAt(index)
	if err != nil {
		return err
	}
	e.s.library = append(e.s.library[:index], e.s.library[index+1:]...)
	e.s.libraryDirty = true
	e.persist()

	if !e.signedIn() || song.RemoteID == "" {
		return nil
	}
	id := song.RemoteID
	e.callRemote(func(r Remote) { err = r.DeleteSong(ctx, id) })
	if err != nil {
		e.log.Error("delete song failed", zap.String("id", id), zap.Error(err))
	}
	return nil
}

// MoveLibrarySong moves the song at from so that it ends up at to.
func (e *Engine) MoveLibrarySong(from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	lib, err := move(e.s.library, from, to)
	if err != nil {
		return err
	}
	e.s.library = lib
	e.s.libraryDirty = true
	e.persist()
	return nil
}

func move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return items, ErrIndexOutOfRange
	}
	if from == to {
		return items, nil
	}
	it := items[from]
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	out = append(out[:to], append([]T{it}, out[to:]...)...)
	return out, nil
}
