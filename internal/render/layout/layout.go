package layout

import "image"

// Inset shrinks rect by paddingPx on all sides.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitVertical cuts rect at leftWidthPx from its left edge, clamped to
// the rect.
func SplitVertical(rect image.Rectangle, leftWidthPx int) (left, right image.Rectangle) {
	rect = Normalize(rect)
	x := rect.Min.X + clampSpan(leftWidthPx, rect.Dx())
	left, right = rect, rect
	left.Max.X, right.Min.X = x, x
	return left, right
}

// SplitHorizontal cuts rect at topHeightPx from its top edge, clamped to
// the rect.
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top, bottom image.Rectangle) {
	rect = Normalize(rect)
	y := rect.Min.Y + clampSpan(topHeightPx, rect.Dy())
	top, bottom = rect, rect
	top.Max.Y, bottom.Min.Y = y, y
	return top, bottom
}

func clampSpan(v, limit int) int {
	switch {
	case v < 0:
		return 0
	case v > limit:
		return limit
	}
	return v
}

// AnchorTopLeft places a widthPx x heightPx box at the top-left of rect,
// shrunk to fit.
func AnchorTopLeft(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	w, h := clampSpan(widthPx, rect.Dx()), clampSpan(heightPx, rect.Dy())
	return image.Rectangle{Min: rect.Min, Max: rect.Min.Add(image.Pt(w, h))}
}

// FitSquare is the largest top-left square inside rect.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	side := min(rect.Dx(), rect.Dy())
	return AnchorTopLeft(rect, side, side)
}

// Rows splits rect into n stacked rows of rowHeightPx separated by gapPx.
// Rows that do not fit are returned empty.
func Rows(rect image.Rectangle, n, rowHeightPx, gapPx int) []image.Rectangle {
	rect = Normalize(rect)
	if n <= 0 {
		return nil
	}
	out := make([]image.Rectangle, n)
	y := rect.Min.Y
	for i := range out {
		top := y
		bottom := y + rowHeightPx
		if top > rect.Max.Y {
			top = rect.Max.Y
		}
		if bottom > rect.Max.Y {
			bottom = rect.Max.Y
		}
		out[i] = image.Rect(rect.Min.X, top, rect.Max.X, bottom)
		y = bottom + gapPx
	}
	return out
}
