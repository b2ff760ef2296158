package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"shoreline/internal/maps"
	"shoreline/internal/retile"
	"shoreline/internal/tiles"
)

// Image draws the layout with cell pixels per tile. Water tiles are filled
// with the water color, then a shore strip is drawn on every land side and
// a shore square on every land corner.
func Image(l *retile.Layout, m *maps.Map, cell int) image.Image {
	ctx := gg.NewContextForRGBA(image.NewRGBA(image.Rect(0, 0, l.Width*cell, l.Height*cell)))
	c := float64(cell)
	band := c / 4

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			px, py := float64(x)*c, float64(y)*c
			p := l.At(x, y)

			if !p.Water {
				r, g, b := AnsiToRGB(m.TileAt(x, y).Fg)
				ctx.SetColor(color.RGBA{r / 2, g / 2, b / 2, 255})
				ctx.DrawRectangle(px, py, c, c)
				ctx.Fill()
				continue
			}

			ctx.SetColor(color.RGBA{waterRGB[0], waterRGB[1], waterRGB[2], 255})
			ctx.DrawRectangle(px, py, c, c)
			ctx.Fill()

			ctx.SetColor(color.RGBA{shoreRGB[0], shoreRGB[1], shoreRGB[2], 255})
			for _, d := range p.Shape.LandSides() {
				switch d {
				case tiles.North:
					ctx.DrawRectangle(px, py, c, band)
				case tiles.East:
					ctx.DrawRectangle(px+c-band, py, band, c)
				case tiles.South:
					ctx.DrawRectangle(px, py+c-band, c, band)
				case tiles.West:
					ctx.DrawRectangle(px, py, band, c)
				}
			}
			for _, k := range p.Shape.Corners.Corners() {
				switch k {
				case tiles.NorthEast:
					ctx.DrawRectangle(px+c-band, py, band, band)
				case tiles.SouthEast:
					ctx.DrawRectangle(px+c-band, py+c-band, band, band)
				case tiles.SouthWest:
					ctx.DrawRectangle(px, py+c-band, band, band)
				case tiles.NorthWest:
					ctx.DrawRectangle(px, py, band, band)
				}
			}
			ctx.Fill()
		}
	}
	return ctx.Image()
}

// SavePNG writes the layout as a PNG file.
func SavePNG(path string, l *retile.Layout, m *maps.Map, cell int) error {
	if cell < 1 {
		return fmt.Errorf("cell size must be positive, got %d", cell)
	}
	if err := gg.SavePNG(path, Image(l, m, cell)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
