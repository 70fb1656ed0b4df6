package attend

import "image"

// Camera delivers frames from a capture device. A session owns its camera
// exclusively and must Close it on every exit path.
type Camera interface {
	// Read blocks until the next frame is available.
	Read() (image.Image, error)
	Close() error
}

// CameraSource opens the capture device for one session.
type CameraSource interface {
	Open() (Camera, error)
}

// Detector finds axis-aligned face bounding boxes in a frame.
// Boxes carry no ordering guarantee.
type Detector interface {
	DetectFaces(frame image.Image) ([]image.Rectangle, error)
}

// Sample is one labeled grayscale face crop used for training.
type Sample struct {
	Face  *image.Gray
	Label int
}

// FaceTrainer builds a classifier from labeled samples.
type FaceTrainer interface {
	Train(samples []Sample) (FaceModel, error)
}

// FaceModel classifies a grayscale crop. Lower confidence means a closer match
// (a distance, not a probability).
type FaceModel interface {
	Predict(face *image.Gray) (label int, confidence float64, err error)
	Close() error
}

// Command is a discrete operator signal polled once per frame.
type Command int

const (
	CommandNone Command = iota
	CommandCapture
	CommandFinish
	CommandQuit
)

// MarkStyle selects how the operator surface draws a face box.
type MarkStyle int

const (
	MarkUnknown    MarkStyle = iota // face not matched to a student
	MarkRecognized                  // face matched to a student
	MarkCapture                     // face framed for an enrollment photo
)

// FaceMark describes one detected box for display.
type FaceMark struct {
	Box   image.Rectangle
	Text  string
	Style MarkStyle
	// Confidence is drawn only when ShowConfidence is set.
	Confidence     float64
	ShowConfidence bool
}

// View is what a session asks the operator surface to show for one frame.
type View struct {
	Title string
	Frame image.Image
	Faces []FaceMark
	Lines []string
}

// Operator shows a view and returns the pending operator command.
type Operator interface {
	Poll(view *View) Command
}
