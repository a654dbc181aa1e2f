// Package share encodes a read-only setlist into a URL-safe token and back.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"setlist-service/internal/model"
)

// QueryParam is the share-link query parameter carrying the token.
const QueryParam = "s"

var (
	ErrInvalidToken  = errors.New("share: could not load shared link")
	ErrEmptySetlist  = errors.New("share: setlist is empty")
	errEmptyBaseLink = errors.New("share: base url is empty")
)

// Payload is a live event without identifiers.
type Payload struct {
	Title       string               `json:"title"`
	Date        string               `json:"date"`
	SlotMinutes int                  `json:"slotMinutes"`
	Artist      string               `json:"artist,omitempty"`
	Items       []model.SetlistEntry `json:"items"`
}

// Encode serializes p as JSON and then as unpadded base64url.
func Encode(p Payload) (string, error) {
	if len(p.Items) == 0 {
		return "", ErrEmptySetlist
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("share: encode: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

var decoders = []*base64.Encoding{
	base64.RawURLEncoding,
	base64.URLEncoding,
	base64.StdEncoding,
	base64.RawStdEncoding,
}

// Decode reverses Encode. Any malformed token, and any payload without
// setlist entries, yields ErrInvalidToken.
func Decode(token string) (*Payload, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	if unescaped, err := url.QueryUnescape(token); err == nil {
		token = unescaped
	}

	var data []byte
	for _, enc := range decoders {
		b, err := enc.DecodeString(token)
		if err == nil {
			data = b
			break
		}
	}
	if data == nil {
		return nil, ErrInvalidToken
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, ErrInvalidToken
	}
	if len(p.Items) == 0 {
		return nil, ErrInvalidToken
	}
	return &p, nil
}

// Link appends the token to base as the share query parameter.
func Link(base, token string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", errEmptyBaseLink
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("share: base url: %w", err)
	}
	q := u.Query()
	q.Set(QueryParam, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// QRCode renders link as a PNG of the given pixel size.
func QRCode(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("share: qr: %w", err)
	}
	return png, nil
}

// LiveEvent returns the payload as an unsaved live event.
func (p *Payload) LiveEvent() model.LiveEvent {
	return model.LiveEvent{
		Title:       p.Title,
		Date:        p.Date,
		SlotMinutes: p.SlotMinutes,
		Artist:      p.Artist,
		Items:       model.CloneEntries(p.Items),
	}
}
