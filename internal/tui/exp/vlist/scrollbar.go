package vlist

import (
	"github.com/charmbracelet/virtualize/internal/tui/styles"
)

const (
	scrollTrackChar = "│"
	scrollThumbChar = "┃"
)

// scrollbar renders a vertical bar of height rows for a viewport at offset
// over content rows. It returns nil when everything fits.
func scrollbar(height, content, offset int) []string {
	if height <= 0 || content <= height {
		return nil
	}
	thumb := min(max(height*height/content, 1), height)

	top := 0
	if scrollable := content - height; scrollable > 0 {
		top = offset * (height - thumb) / scrollable
	}
	top = max(0, min(top, height-thumb))

	t := styles.CurrentTheme()
	rows := make([]string, height)
	for i := range rows {
		if i >= top && i < top+thumb {
			rows[i] = t.S().ScrollbarThumb.Render(scrollThumbChar)
		} else {
			rows[i] = t.S().ScrollbarTrack.Render(scrollTrackChar)
		}
	}
	return rows
}
