package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"attend-go/internal/attend"
)

var (
	green = color.RGBA{0, 255, 0, 0}
	red   = color.RGBA{255, 0, 0, 0}
	white = color.RGBA{255, 255, 255, 0}
)

// WindowOperator shows session views in a desktop window and reads keys.
// The window is created on the first Poll.
type WindowOperator struct {
	window *gocv.Window
}

// NewWindowOperator creates an operator surface. Close it when the session ends.
func NewWindowOperator() *WindowOperator {
	return &WindowOperator{}
}

func (o *WindowOperator) Poll(view *attend.View) attend.Command {
	if o.window == nil {
		o.window = gocv.NewWindow(view.Title)
	}

	img, err := gocv.ImageToMatRGB(view.Frame)
	if err != nil {
		return attend.CommandNone
	}
	defer img.Close()

	for _, f := range view.Faces {
		c := markColor(f)
		gocv.Rectangle(&img, f.Box, c, 2)
		if f.Text != "" {
			gocv.PutText(&img, f.Text, image.Pt(f.Box.Min.X, f.Box.Min.Y-10), gocv.FontHersheyPlain, 1.2, c, 2)
		}
		if f.ShowConfidence {
			gocv.PutText(&img, confidenceText(f.Confidence), image.Pt(f.Box.Min.X, f.Box.Max.Y+20), gocv.FontHersheyPlain, 1.0, c, 1)
		}
	}
	for i, line := range view.Lines {
		gocv.PutText(&img, line, image.Pt(10, 30+30*i), gocv.FontHersheyPlain, 1.4, white, 2)
	}

	o.window.IMShow(img)
	return keyCommand(o.window.WaitKey(1))
}

// Close destroys the window.
func (o *WindowOperator) Close() error {
	if o.window == nil {
		return nil
	}
	err := o.window.Close()
	o.window = nil
	return err
}

var _ attend.Operator = (*WindowOperator)(nil)
