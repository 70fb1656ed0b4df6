package testutil

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"attend-go/internal/attend"
)

// ErrCameraUnplugged is returned by ScriptedCamera reads past FailAfter.
var ErrCameraUnplugged = errors.New("camera unplugged")

// FakeDetector reports the painted faces of a FaceFrame and nothing for any
// other image.
type FakeDetector struct {
	mu    sync.Mutex
	Calls int
	Err   error
}

func (d *FakeDetector) DetectFaces(frame image.Image) ([]image.Rectangle, error) {
	d.mu.Lock()
	d.Calls++
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}
	if f, ok := frame.(*FaceFrame); ok {
		return append([]image.Rectangle(nil), f.Faces...), nil
	}
	return nil, nil
}

// FakeTrainer builds a FakeModel that remembers the gray level of each
// sample's center pixel.
type FakeTrainer struct {
	Samples []attend.Sample // samples of the last Train call
	Err     error
}

func (t *FakeTrainer) Train(samples []attend.Sample) (attend.FaceModel, error) {
	if t.Err != nil {
		return nil, t.Err
	}
	t.Samples = samples

	m := &FakeModel{levels: make(map[uint8]int)}
	for _, s := range samples {
		m.levels[centerLevel(s.Face)] = s.Label
	}
	return m, nil
}

// FakeModel predicts the label of the nearest trained level. Confidence is
// 10 + 2*|level difference|, so an exact match scores 10 and a difference of
// 30 or more scores at or above the default threshold of 70.
type FakeModel struct {
	levels map[uint8]int
	Closed bool
}

func (m *FakeModel) Predict(face *image.Gray) (int, float64, error) {
	if len(m.levels) == 0 {
		return -1, 0, fmt.Errorf("model has no samples")
	}
	level := int(centerLevel(face))

	best, bestDiff := -1, 256
	for l, label := range m.levels {
		diff := level - int(l)
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff || (diff == bestDiff && label < best) {
			best, bestDiff = label, diff
		}
	}
	return best, float64(10 + 2*bestDiff), nil
}

func (m *FakeModel) Close() error {
	m.Closed = true
	return nil
}

// ScriptedSource opens ScriptedCameras that replay Frames.
type ScriptedSource struct {
	Frames []image.Image
	// Loop repeats Frames forever; otherwise the last frame repeats.
	Loop bool
	// FailAfter makes reads after this many frames fail. Zero never fails.
	FailAfter int
	OpenErr   error

	mu     sync.Mutex
	Opens  int
	Closes int
	Reads  int
}

func (s *ScriptedSource) Open() (attend.Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	s.Opens++
	return &scriptedCamera{src: s}, nil
}

// Released reports whether every opened camera was closed.
func (s *ScriptedSource) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Opens == s.Closes
}

type scriptedCamera struct {
	src    *ScriptedSource
	n      int
	closed bool
}

func (c *scriptedCamera) Read() (image.Image, error) {
	s := c.src
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("read from closed camera")
	}
	if s.FailAfter > 0 && c.n >= s.FailAfter {
		return nil, ErrCameraUnplugged
	}
	if len(s.Frames) == 0 {
		return nil, ErrCameraUnplugged
	}

	i := c.n
	if s.Loop {
		i %= len(s.Frames)
	} else if i >= len(s.Frames) {
		i = len(s.Frames) - 1
	}
	c.n++
	s.Reads++
	return s.Frames[i], nil
}

func (c *scriptedCamera) Close() error {
	s := c.src
	s.mu.Lock()
	defer s.mu.Unlock()
	if !c.closed {
		c.closed = true
		s.Closes++
	}
	return nil
}

// ScriptedOperator returns Commands in order, then Then (CommandQuit by default).
type ScriptedOperator struct {
	Commands []attend.Command
	Then     attend.Command
	// OnPoll runs before each poll returns; poll counts from 1.
	OnPoll func(poll int, view *attend.View)

	Views []*attend.View
}

func (o *ScriptedOperator) Poll(view *attend.View) attend.Command {
	o.Views = append(o.Views, view)
	n := len(o.Views)
	if o.OnPoll != nil {
		o.OnPoll(n, view)
	}
	if n <= len(o.Commands) {
		return o.Commands[n-1]
	}
	if o.Then == attend.CommandNone {
		return attend.CommandQuit
	}
	return o.Then
}

// Repeat returns n copies of cmd.
func Repeat(cmd attend.Command, n int) []attend.Command {
	out := make([]attend.Command, n)
	for i := range out {
		out[i] = cmd
	}
	return out
}
