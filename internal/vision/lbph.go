package vision

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"

	"attend-go/internal/attend"
)

// recognizer is the part of contrib.LBPHFaceRecognizer the model uses.
type recognizer interface {
	Train(images []gocv.Mat, labels []int) error
	PredictExtendedResponse(sample gocv.Mat) contrib.PredictResponse
}

// LBPHTrainer trains OpenCV's local binary pattern histogram recognizer.
type LBPHTrainer struct {
	newRecognizer func() recognizer // nil uses contrib.NewLBPHFaceRecognizer
}

func (t LBPHTrainer) Train(samples []attend.Sample) (attend.FaceModel, error) {
	if len(samples) == 0 {
		return nil, attend.ErrNoSamples
	}

	mats := make([]gocv.Mat, 0, len(samples))
	labels := make([]int, 0, len(samples))
	defer func() {
		for _, m := range mats {
			m.Close()
		}
	}()

	for _, s := range samples {
		m, err := gocv.ImageGrayToMatGray(s.Face)
		if err != nil {
			return nil, fmt.Errorf("converting sample: %w", err)
		}
		mats = append(mats, m)
		labels = append(labels, s.Label)
	}

	var r recognizer
	if t.newRecognizer != nil {
		r = t.newRecognizer()
	} else {
		r = contrib.NewLBPHFaceRecognizer()
	}
	if err := r.Train(mats, labels); err != nil {
		return nil, fmt.Errorf("training LBPH: %w", err)
	}
	return &lbphModel{recognizer: r}, nil
}

type lbphModel struct {
	mu         sync.Mutex
	recognizer recognizer
}

// Predict returns the nearest label and its LBPH distance.
func (m *lbphModel) Predict(face *image.Gray) (int, float64, error) {
	mat, err := gocv.ImageGrayToMatGray(face)
	if err != nil {
		return 0, 0, fmt.Errorf("converting face: %w", err)
	}
	defer mat.Close()

	m.mu.Lock()
	resp := m.recognizer.PredictExtendedResponse(mat)
	m.mu.Unlock()
	return int(resp.Label), float64(resp.Confidence), nil
}

func (m *lbphModel) Close() error {
	return nil
}

var _ attend.FaceTrainer = LBPHTrainer{}
