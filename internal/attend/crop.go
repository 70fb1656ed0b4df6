package attend

import (
	"image"

	"golang.org/x/image/draw"
)

// GrayCrop copies the box region of a frame into a new grayscale image.
// The box is clipped to the frame bounds; an empty intersection yields nil.
func GrayCrop(frame image.Image, box image.Rectangle) *image.Gray {
	r := box.Intersect(frame.Bounds())
	if r.Empty() {
		return nil
	}
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), frame, r.Min, draw.Src)
	return dst
}
