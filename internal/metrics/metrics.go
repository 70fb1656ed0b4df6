// Package metrics counts recognition session activity with Prometheus
// collectors and writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"attend-go/internal/attend"
)

// Recorder implements attend.Metrics.
type Recorder struct {
	registry *prometheus.Registry

	frames     prometheus.Counter
	faces      *prometheus.CounterVec
	confidence prometheus.Histogram
	writes     *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "attend",
			Name:      "frames_processed_total",
			Help:      "Camera frames processed by the recognition loop.",
		}),
		faces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attend",
			Name:      "faces_classified_total",
			Help:      "Detected faces by classification result.",
		}, []string{"result"}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "attend",
			Name:      "match_confidence",
			Help:      "Classifier distance for detected faces. Lower is closer.",
			Buckets:   prometheus.LinearBuckets(10, 10, 12),
		}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attend",
			Name:      "attendance_writes_total",
			Help:      "Ledger writes by outcome.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(r.frames, r.faces, r.confidence, r.writes)
	return r
}

func (r *Recorder) FrameProcessed() {
	r.frames.Inc()
}

func (r *Recorder) FaceClassified(recognized bool, confidence float64) {
	result := "unknown"
	if recognized {
		result = "recognized"
	}
	r.faces.WithLabelValues(result).Inc()
	r.confidence.Observe(confidence)
}

func (r *Recorder) AttendanceWritten(result attend.MarkResult) {
	label := "marked"
	if result == attend.AlreadyMarked {
		label = "already_marked"
	}
	r.writes.WithLabelValues(label).Inc()
}

// WriteTextfile writes all collectors to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

var _ attend.Metrics = (*Recorder)(nil)
