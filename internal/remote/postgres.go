package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"setlist-service/internal/duration"
	"setlist-service/internal/model"
)

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func songFields(s model.Song) (title string, dur int, url, sheet, artist string) {
	dur = s.DurationSec
	if dur < 0 {
		dur = 0
	}
	return s.Title, dur, s.URL, s.SheetURL, strings.TrimSpace(s.Artist)
}

func (p *PostgresStore) SaveSong(ctx context.Context, uid string, song model.Song) (string, error) {
	if uid == "" {
		return "", ErrUnauthenticated
	}
	title, dur, url, sheet, artist := songFields(song)

	var id string
	err := p.db.QueryRow(ctx, `
		INSERT INTO songs (user_id, title, duration_sec, url, sheet_url, artist, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, uid, title, dur, url, sheet, artist, song.Order).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("save song: %w", err)
	}
	return id, nil
}

func (p *PostgresStore) UpdateSong(ctx context.Context, uid, id string, song model.Song) error {
	if uid == "" {
		return ErrUnauthenticated
	}
	title, dur, url, sheet, artist := songFields(song)

	tag, err := p.db.Exec(ctx, `
		UPDATE songs
		SET title = $3, duration_sec = $4, url = $5, sheet_url = $6, artist = $7,
		    sort_order = $8, updated_at = now()
		WHERE user_id = $1 AND id = $2
	`, uid, id, title, dur, url, sheet, artist, song.Order)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) DeleteSong(ctx context.Context, uid, id string) error {
	if uid == "" {
		return ErrUnauthenticated
	}
	if _, err := p.db.Exec(ctx, `DELETE FROM songs WHERE user_id = $1 AND id = $2`, uid, id); err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	return nil
}

func (p *PostgresStore) ListSongs(ctx context.Context, uid, artist string) ([]model.Song, error) {
	if uid == "" {
		return nil, ErrUnauthenticated
	}
	artist = strings.TrimSpace(artist)

	rows, err := p.db.Query(ctx, `
		SELECT id, title, duration_sec, url, sheet_url, artist, sort_order
		FROM songs
		WHERE user_id = $1 AND ($2 = '' OR artist = $2)
		ORDER BY sort_order ASC, created_at ASC
	`, uid, artist)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	songs := []model.Song{}
	for rows.Next() {
		var s model.Song
		if err := rows.Scan(&s.RemoteID, &s.Title, &s.DurationSec, &s.URL, &s.SheetURL, &s.Artist, &s.Order); err != nil {
			return nil, fmt.Errorf("list songs scan: %w", err)
		}
		s.URL = duration.NormalizeURL(s.URL)
		s.SheetURL = duration.NormalizeURL(s.SheetURL)
		s.Source = model.SourceRemote
		songs = append(songs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list songs rows: %w", err)
	}
	return songs, nil
}

func (p *PostgresStore) SaveLibrarySnapshot(ctx context.Context, uid string, songs []model.Song) ([]string, error) {
	if uid == "" {
		return nil, ErrUnauthenticated
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("save library begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(songs))
	for i, song := range songs {
		title, dur, url, sheet, artist := songFields(song)
		order := song.Order
		if order < 0 {
			order = i
		}

		var id string
		if song.RemoteID != "" {
			err = tx.QueryRow(ctx, `
				INSERT INTO songs (id, user_id, title, duration_sec, url, sheet_url, artist, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (id) DO UPDATE
				SET title = EXCLUDED.title, duration_sec = EXCLUDED.duration_sec,
				    url = EXCLUDED.url, sheet_url = EXCLUDED.sheet_url,
				    artist = EXCLUDED.artist, sort_order = EXCLUDED.sort_order,
				    updated_at = now()
				WHERE songs.user_id = EXCLUDED.user_id
				RETURNING id
			`, song.RemoteID, uid, title, dur, url, sheet, artist, order).Scan(&id)
		} else {
			err = tx.QueryRow(ctx, `
				INSERT INTO songs (user_id, title, duration_sec, url, sheet_url, artist, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id
			`, uid, title, dur, url, sheet, artist, order).Scan(&id)
		}
		if err != nil {
			return nil, fmt.Errorf("save library song %d: %w", i, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("save library commit: %w", err)
	}
	return ids, nil
}

func (p *PostgresStore) DeleteSongsByArtist(ctx context.Context, uid, artist string) (int, error) {
	if uid == "" {
		return 0, ErrUnauthenticated
	}
	artist = strings.TrimSpace(artist)
	if artist == "" {
		return 0, nil
	}
	tag, err := p.db.Exec(ctx, `DELETE FROM songs WHERE user_id = $1 AND artist = $2`, uid, artist)
	if err != nil {
		return 0, fmt.Errorf("delete songs by artist: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (p *PostgresStore) SaveArtist(ctx context.Context, uid, name string) (string, error) {
	if uid == "" {
		return "", ErrUnauthenticated
	}
	var id string
	err := p.db.QueryRow(ctx, `
		INSERT INTO artists (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, uid, strings.TrimSpace(name)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("save artist: %w", err)
	}
	return id, nil
}

func (p *PostgresStore) ListArtists(ctx context.Context, uid string) ([]model.Artist, error) {
	if uid == "" {
		return nil, ErrUnauthenticated
	}
	rows, err := p.db.Query(ctx, `
		SELECT id, name, EXTRACT(EPOCH FROM created_at)::BIGINT
		FROM artists
		WHERE user_id = $1
		ORDER BY name ASC
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	artists := []model.Artist{}
	for rows.Next() {
		var a model.Artist
		var created int64
		if err := rows.Scan(&a.ID, &a.Name, &created); err != nil {
			return nil, fmt.Errorf("list artists scan: %w", err)
		}
		a.CreatedAt = &created
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list artists rows: %w", err)
	}
	return artists, nil
}

func (p *PostgresStore) DeleteArtist(ctx context.Context, uid, id string) error {
	if uid == "" {
		return ErrUnauthenticated
	}
	if _, err := p.db.Exec(ctx, `DELETE FROM artists WHERE user_id = $1 AND id = $2`, uid, id); err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}
	return nil
}

func (p *PostgresStore) upsertLiveEvent(ctx context.Context, uid, id string, ev model.LiveEvent, draft bool) error {
	items := ev.Items
	if items == nil {
		items = []model.SetlistEntry{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	_, err = p.db.Exec(ctx, `
		INSERT INTO live_events (user_id, id, title, live_date, slot_minutes, artist, items, is_draft)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, id) DO UPDATE
		SET title = EXCLUDED.title, live_date = EXCLUDED.live_date,
		    slot_minutes = EXCLUDED.slot_minutes, artist = EXCLUDED.artist,
		    items = EXCLUDED.items, is_draft = EXCLUDED.is_draft, updated_at = now()
	`, uid, id, ev.Title, ev.Date, ev.SlotMinutes, strings.TrimSpace(ev.Artist), raw, draft)
	return err
}

func (p *PostgresStore) SaveLiveEvent(ctx context.Context, uid string, ev model.LiveEvent) (string, error) {
	if uid == "" {
		return "", ErrUnauthenticated
	}
	id := uuid.NewString()
	if err := p.upsertLiveEvent(ctx, uid, id, ev, false); err != nil {
		return "", fmt.Errorf("save live event: %w", err)
	}
	return id, nil
}

func (p *PostgresStore) UpdateLiveEvent(ctx context.Context, uid, id string, ev model.LiveEvent) error {
	if uid == "" {
		return ErrUnauthenticated
	}
	if err := p.upsertLiveEvent(ctx, uid, id, ev, false); err != nil {
		return fmt.Errorf("update live event: %w", err)
	}
	return nil
}

const liveEventColumns = `id, title, live_date, slot_minutes, artist, items, is_draft, created_at, updated_at`

func scanLiveEvent(row pgx.Row) (model.LiveEvent, error) {
	var ev model.LiveEvent
	var raw []byte
	if err := row.Scan(&ev.ID, &ev.Title, &ev.Date, &ev.SlotMinutes, &ev.Artist, &raw, &ev.IsDraft, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
		return ev, err
	}
	ev.Items = []model.SetlistEntry{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ev.Items); err != nil {
			return ev, fmt.Errorf("decode items: %w", err)
		}
	}
	return ev, nil
}

func (p *PostgresStore) ListLiveEvents(ctx context.Context, uid string) ([]model.LiveEvent, error) {
	if uid == "" {
		return nil, ErrUnauthenticated
	}
	rows, err := p.db.Query(ctx, `
		SELECT `+liveEventColumns+`
		FROM live_events
		WHERE user_id = $1 AND NOT is_draft
		ORDER BY created_at DESC
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("list live events: %w", err)
	}
	defer rows.Close()

	events := []model.LiveEvent{}
	for rows.Next() {
		ev, err := scanLiveEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("list live events scan: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list live events rows: %w", err)
	}
	return events, nil
}

func (p *PostgresStore) DeleteLiveEvent(ctx context.Context, uid, id string) error {
	if uid == "" {
		return ErrUnauthenticated
	}
	if _, err := p.db.Exec(ctx, `DELETE FROM live_events WHERE user_id = $1 AND id = $2`, uid, id); err != nil {
		return fmt.Errorf("delete live event: %w", err)
	}
	return nil
}

func (p *PostgresStore) SaveDraftLiveEvent(ctx context.Context, uid string, ev model.LiveEvent) (string, error) {
	if uid == "" {
		return "", ErrUnauthenticated
	}
	id := model.DraftID(ev.Artist)
	if err := p.upsertLiveEvent(ctx, uid, id, ev, true); err != nil {
		return "", fmt.Errorf("save draft: %w", err)
	}
	return id, nil
}

func (p *PostgresStore) LoadDraftLiveEvent(ctx context.Context, uid, artist string) (*model.LiveEvent, error) {
	if uid == "" {
		return nil, ErrUnauthenticated
	}
	ev, err := scanLiveEvent(p.db.QueryRow(ctx, `
		SELECT `+liveEventColumns+`
		FROM live_events
		WHERE user_id = $1 AND id = $2
	`, uid, model.DraftID(artist)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return &ev, nil
}
