// Package vision adapts OpenCV (via gocv) to the attend camera, detector,
// trainer and operator interfaces.
package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"attend-go/internal/attend"
)

// DeviceSource opens a local capture device by index.
type DeviceSource struct {
	Device int
}

func (s DeviceSource) Open() (attend.Camera, error) {
	vc, err := gocv.VideoCaptureDevice(s.Device)
	if err != nil {
		return nil, fmt.Errorf("opening capture device %d: %w", s.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("capture device %d is not available", s.Device)
	}
	return &deviceCamera{device: s.Device, vc: vc, mat: gocv.NewMat()}, nil
}

type deviceCamera struct {
	device int
	vc     *gocv.VideoCapture
	mat    gocv.Mat
}

func (c *deviceCamera) Read() (image.Image, error) {
	if ok := c.vc.Read(&c.mat); !ok {
		return nil, fmt.Errorf("cannot read device %d", c.device)
	}
	if c.mat.Empty() {
		return nil, fmt.Errorf("empty frame from device %d", c.device)
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("converting frame: %w", err)
	}
	return img, nil
}

func (c *deviceCamera) Close() error {
	c.mat.Close()
	return c.vc.Close()
}

var _ attend.CameraSource = DeviceSource{}
