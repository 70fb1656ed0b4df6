package attend

// Metrics receives recognition loop counters.
type Metrics interface {
	FrameProcessed()
	FaceClassified(recognized bool, confidence float64)
	AttendanceWritten(result MarkResult)
}

// Progress reports long-running training work.
type Progress interface {
	Start(total int, description string)
	Step()
	Done()
}

// NopMetrics discards all counters.
type NopMetrics struct{}

func (NopMetrics) FrameProcessed()              {}
func (NopMetrics) FaceClassified(bool, float64) {}
func (NopMetrics) AttendanceWritten(MarkResult) {}

// NopProgress discards progress reports.
type NopProgress struct{}

func (NopProgress) Start(int, string) {}
func (NopProgress) Step()             {}
func (NopProgress) Done()             {}
