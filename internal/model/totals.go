package model

// Status bands the remaining time of a setlist against its slot.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusOver Status = "over"
)

// warnWindowSec is how close to the slot end a setlist turns to StatusWarn.
const warnWindowSec = 60

// Totals are derived from the setlist and the slot length.
type Totals struct {
	TotalSec     int    `json:"totalSec"`
	SlotSec      int    `json:"slotSec"`
	RemainingSec int    `json:"remainingSec"`
	Status       Status `json:"status"`
}

// ComputeTotals sums entry durations and compares them to the slot.
func ComputeTotals(items []SetlistEntry, slotMinutes int) Totals {
	total := 0
	for _, it := range items {
		total += it.DurationSec
	}
	slot := slotMinutes * 60
	remaining := slot - total

	status := StatusOK
	switch {
	case remaining < 0:
		status = StatusOver
	case remaining <= warnWindowSec:
		status = StatusWarn
	}

	return Totals{
		TotalSec:     total,
		SlotSec:      slot,
		RemainingSec: remaining,
		Status:       status,
	}
}
