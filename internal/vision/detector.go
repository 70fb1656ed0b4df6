package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"attend-go/internal/attend"
	"attend-go/internal/config"
)

// minFace is the smallest box the cascade reports.
var minFace = image.Pt(30, 30)

// CascadeDetector finds faces with a Haar cascade classifier.
type CascadeDetector struct {
	classifier   gocv.CascadeClassifier
	scaleFactor  float64
	minNeighbors int
}

// NewCascadeDetector loads the cascade file named in cfg.
func NewCascadeDetector(cfg config.DetectorConfig) (*CascadeDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cfg.CascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("error reading cascade file: %s", cfg.CascadePath)
	}
	return &CascadeDetector{
		classifier:   classifier,
		scaleFactor:  cfg.ScaleFactor,
		minNeighbors: cfg.MinNeighbors,
	}, nil
}

// DetectFaces runs the cascade on the grayscale frame.
func (d *CascadeDetector) DetectFaces(frame image.Image) ([]image.Rectangle, error) {
	gray := attend.GrayCrop(frame, frame.Bounds())
	if gray == nil {
		return nil, nil
	}

	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, fmt.Errorf("converting frame: %w", err)
	}
	defer mat.Close()

	boxes := d.classifier.DetectMultiScaleWithParams(mat, d.scaleFactor, d.minNeighbors, 0, minFace, image.Point{})

	// Boxes are relative to the crop; shift back to frame coordinates.
	origin := frame.Bounds().Min
	for i := range boxes {
		boxes[i] = boxes[i].Add(origin)
	}
	return boxes, nil
}

// Close releases the classifier.
func (d *CascadeDetector) Close() error {
	return d.classifier.Close()
}

var _ attend.Detector = (*CascadeDetector)(nil)
