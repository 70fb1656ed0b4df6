package testutil

import (
	"image"
	"image/color"
)

const (
	faceSize    = 24
	faceSpacing = 40
	background  = 8
)

// FaceFrame is a synthetic camera frame: a dark canvas with square faces
// painted at known boxes. Each face is filled with a single gray level, and
// FakeModel treats that level as the face's identity.
type FaceFrame struct {
	*image.Gray
	Faces []image.Rectangle
}

// NewFaceFrame paints one face per level, left to right.
func NewFaceFrame(levels ...uint8) *FaceFrame {
	width := 20 + faceSpacing*len(levels)
	img := image.NewGray(image.Rect(0, 0, width, faceSize+20))
	for i := range img.Pix {
		img.Pix[i] = background
	}

	f := &FaceFrame{Gray: img}
	for i, level := range levels {
		box := image.Rect(10+faceSpacing*i, 10, 10+faceSpacing*i+faceSize, 10+faceSize)
		for y := box.Min.Y; y < box.Max.Y; y++ {
			for x := box.Min.X; x < box.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: level})
			}
		}
		f.Faces = append(f.Faces, box)
	}
	return f
}

// EmptyFrame is a frame with no faces.
func EmptyFrame() *FaceFrame {
	return NewFaceFrame()
}

// centerLevel returns the gray level at the center of img.
func centerLevel(img *image.Gray) uint8 {
	b := img.Bounds()
	return img.GrayAt(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2).Y
}
