// Package export renders a live event as a plain-text sheet.
package export

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"setlist-service/internal/duration"
	"setlist-service/internal/model"
	"setlist-service/internal/render"
)

// Sheet renders ev as a header followed by a numbered table and totals.
func Sheet(ev model.LiveEvent) string {
	var b strings.Builder

	b.WriteString(duration.AutoLiveTitle(ev.Title, ev.Date))
	b.WriteByte('\n')
	var meta []string
	if ev.Date != "" {
		meta = append(meta, ev.Date)
	}
	if ev.Artist != "" {
		meta = append(meta, ev.Artist)
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " / "))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Title", "Time", "URL"})
	for i, it := range ev.Items {
		tw.AppendRow(table.Row{
			render.PositionLabel(i),
			it.BaseTitle,
			duration.Format(it.DurationSec),
			duration.NormalizeURL(it.URL),
		})
	}

	tv := render.Totals(model.ComputeTotals(ev.Items, ev.SlotMinutes))
	tw.AppendFooter(table.Row{"", "Total", tv.Total, ""})
	tw.AppendFooter(table.Row{"", "Slot", tv.Slot, ""})
	tw.AppendFooter(table.Row{"", tv.Label, tv.Remaining, ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	b.WriteString(tw.Render())
	b.WriteByte('\n')
	return b.String()
}

// Filename is a download name for the sheet: date and title, .txt.
func Filename(ev model.LiveEvent) string {
	name := duration.AutoLiveTitle(ev.Title, ev.Date)
	if ev.Date != "" {
		name = ev.Date + "_" + name
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf("%s.txt", name)
}
