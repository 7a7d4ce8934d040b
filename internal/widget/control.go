package widget

import (
	"image"

	"github.com/rook-computer/mandelview/internal/render/layout"
)

// Control panel widget IDs.
const (
	IDTitle         = "title"
	IDHue           = "hue"
	IDSaturation    = "saturation"
	IDValue         = "value"
	IDMaxIterations = "maxIterations"
	IDGrayscale     = "grayscale"
	IDRecompute     = "recompute"
	IDStatus        = "status"
)

const (
	rowHeightPx = 28
	rowGapPx    = 6
	panelPadPx  = 10

	// PanelWidth is the width NewControlPanel is laid out for.
	PanelWidth  = 280
	PanelHeight = 8*rowHeightPx + 7*rowGapPx + 2*panelPadPx
)

// NewControlPanel lays out the standard parameter panel inside rect.
func NewControlPanel(rect image.Rectangle) *Panel {
	rows := layout.Rows(layout.Inset(rect, panelPadPx), 8, rowHeightPx, rowGapPx)
	p := NewPanel(
		Widget{ID: IDTitle, Kind: Label, Rect: rows[0], Text: "mandelview"},
		Widget{ID: IDHue, Kind: Slider, Rect: rows[1], Text: "Hue", Min: 0, Max: 10, Step: 0.05, Value: 1},
		Widget{ID: IDSaturation, Kind: Slider, Rect: rows[2], Text: "Saturation", Min: 0, Max: 100, Step: 1, Value: 100},
		Widget{ID: IDValue, Kind: Slider, Rect: rows[3], Text: "Value", Min: 0, Max: 100, Step: 1, Value: 100},
		Widget{ID: IDMaxIterations, Kind: Slider, Rect: rows[4], Text: "Iterations", Min: 10, Max: 5000, Step: 10, Value: 1000},
		Widget{ID: IDGrayscale, Kind: Checkbox, Rect: rows[5], Text: "Grayscale"},
		Widget{ID: IDRecompute, Kind: Button, Rect: rows[6], Text: "Recompute (R)"},
		Widget{ID: IDStatus, Kind: Label, Rect: rows[7]},
	)
	p.Bounds = rect
	return p
}
