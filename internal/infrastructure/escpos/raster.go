package escpos

import (
	"image"
	"image/color"
)

// Raster is a monochrome bit image, one bit per pixel, most significant
// bit first, rows padded to whole bytes. A set bit prints a dot.
type Raster struct {
	Width  int
	Height int
	Data   []byte
}

// WidthBytes returns the number of bytes per row
func (r Raster) WidthBytes() int {
	return (r.Width + 7) / 8
}

// RasterFromImage thresholds img to black and white. Images wider than
// maxWidth dots are cropped; maxWidth <= 0 keeps the full width.
func RasterFromImage(img image.Image, maxWidth int) Raster {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	r := Raster{Width: w, Height: h}
	wb := r.WidthBytes()
	r.Data = make([]byte, wb*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isDark(img.At(bounds.Min.X+x, bounds.Min.Y+y)) {
				r.Data[y*wb+x/8] |= 0x80 >> uint(x%8)
			}
		}
	}
	return r
}

func isDark(c color.Color) bool {
	g := color.Gray16Model.Convert(c).(color.Gray16)
	_, _, _, a := c.RGBA()
	return a >= 0x8000 && g.Y < 0x8000
}
