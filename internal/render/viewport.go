package render

// Viewport computes camera coordinates for the preview cursor.
type Viewport struct {
	CamX, CamY   int // top-left world coordinate
	ViewW, ViewH int // viewport size in tiles
}

// NewViewport calculates the camera position centered on the cursor,
// clamped to map edges. hudRows reserves space for the HUD at the bottom.
// Each tile takes GlyphWidth screen columns.
func NewViewport(focusX, focusY, termW, termH, mapW, mapH, hudRows int) Viewport {
	viewW := termW / GlyphWidth
	viewH := termH - hudRows
	if viewH < 0 {
		viewH = 0
	}

	camX := clampCam(focusX-viewW/2, viewW, mapW)
	camY := clampCam(focusY-viewH/2, viewH, mapH)

	return Viewport{
		CamX:  camX,
		CamY:  camY,
		ViewW: viewW,
		ViewH: viewH,
	}
}

func clampCam(cam, view, size int) int {
	if cam+view > size {
		cam = size - view
	}
	if cam < 0 {
		cam = 0
	}
	return cam
}

// WorldToScreen converts world coordinates to the screen column and row
// (1-based) of the tile's first cell. Returns -1,-1 if the world position
// is outside the viewport.
func (v Viewport) WorldToScreen(wx, wy int) (int, int) {
	tx := wx - v.CamX
	ty := wy - v.CamY
	if tx < 0 || tx >= v.ViewW || ty < 0 || ty >= v.ViewH {
		return -1, -1
	}
	return tx*GlyphWidth + 1, ty + 1
}
