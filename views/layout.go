package views

// Bounds is the size of the host window's content area.
type Bounds struct {
	Width  int
	Height int
}

// Viewport is the rectangle a visible Session occupies inside the host window.
type Viewport struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the viewport has no visible area.
func (v Viewport) Empty() bool {
	return v.Width == 0 || v.Height == 0
}

// LayoutFor places content below a chrome bar of chromeHeight pixels,
// filling the rest of the window. Width and height are never negative.
func LayoutFor(b Bounds, chromeHeight int) Viewport {
	if chromeHeight < 0 {
		chromeHeight = 0
	}
	return Viewport{
		X:      0,
		Y:      chromeHeight,
		Width:  max(0, b.Width),
		Height: max(0, b.Height-chromeHeight),
	}
}
