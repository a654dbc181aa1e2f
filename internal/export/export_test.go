package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"setlist-service/internal/model"
)

func TestSheet(t *testing.T) {
	ev := model.LiveEvent{
		Title:       "Spring Live",
		Date:        "2024-05-01",
		SlotMinutes: 5,
		Artist:      "Foo",
		Items: []model.SetlistEntry{
			{BaseTitle: "Opening", DurationSec: 210, URL: "x.org/1"},
			{BaseTitle: "Encore", DurationSec: 120},
		},
	}

	out := Sheet(ev)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Spring Live", lines[0])
	assert.Equal(t, "2024-05-01 / Foo", lines[1])
	assert.Contains(t, out, "M-01")
	assert.Contains(t, out, "M-02")
	assert.Contains(t, out, "https://x.org/1")
	assert.Contains(t, out, "5:30")
	assert.Contains(t, out, "-0:30")
	assert.Contains(t, strings.ToLower(out), "over")
}

func TestSheet_Untitled(t *testing.T) {
	out := Sheet(model.LiveEvent{SlotMinutes: 30})
	assert.True(t, strings.HasPrefix(out, "無題のライブ\n\n"))
	assert.Contains(t, out, "30:00")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "2024-05-01_AC_DC.txt", Filename(model.LiveEvent{Title: "AC/DC", Date: "2024-05-01"}))
	assert.Equal(t, "無題のライブ.txt", Filename(model.LiveEvent{}))
}
