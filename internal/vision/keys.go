package vision

import (
	"fmt"
	"image/color"

	"attend-go/internal/attend"
)

const (
	keyEnter = 13
	keyEsc   = 27
)

// keyCommand maps a WaitKey result to an operator command.
func keyCommand(key int) attend.Command {
	switch key {
	case 's', 'S':
		return attend.CommandCapture
	case 'q', 'Q', keyEsc:
		return attend.CommandQuit
	case keyEnter:
		return attend.CommandFinish
	default:
		return attend.CommandNone
	}
}

func markColor(f attend.FaceMark) color.RGBA {
	if f.Style == attend.MarkUnknown {
		return red
	}
	return green
}

func confidenceText(c float64) string {
	return fmt.Sprintf("Conf: %.1f", c)
}
