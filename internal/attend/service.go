package attend

// Settings holds the tunables of the decision pipeline.
type Settings struct {
	// Threshold is the confidence below which a prediction is a match.
	Threshold float64
	// MaxPhotos bounds one enrollment session.
	MaxPhotos int
}

// DefaultSettings returns threshold 70 and 10 photos per enrollment.
func DefaultSettings() Settings {
	return Settings{Threshold: DefaultThreshold, MaxPhotos: 10}
}

// Dependencies are the collaborators a Service is built from. Registry, Ledger,
// Samples, Detector and Trainer are required; the rest default to real or
// no-op implementations.
type Dependencies struct {
	Registry Registry
	Ledger   Ledger
	Samples  SampleStore
	Detector Detector
	Trainer  FaceTrainer
	Logger   Logger
	Clock    Clock
	IDs      IDGenerator
	Metrics  Metrics
	Progress Progress
}

// Service is the orchestration layer for enrollment, training and the
// recognition loop. It holds no process-wide state; every collaborator is
// passed in at construction.
type Service struct {
	registry Registry
	ledger   Ledger
	samples  SampleStore
	detector Detector
	trainer  FaceTrainer
	logger   Logger
	clock    Clock
	ids      IDGenerator
	metrics  Metrics
	progress Progress
	settings Settings
}

// NewService creates a Service from its dependencies.
func NewService(deps Dependencies, settings Settings) *Service {
	if deps.Logger == nil {
		deps.Logger = NewNopLogger()
	}
	if deps.Clock == nil {
		deps.Clock = RealClock{}
	}
	if deps.IDs == nil {
		deps.IDs = UUIDGenerator{}
	}
	if deps.Metrics == nil {
		deps.Metrics = NopMetrics{}
	}
	if deps.Progress == nil {
		deps.Progress = NopProgress{}
	}
	if settings.Threshold <= 0 {
		settings.Threshold = DefaultThreshold
	}
	if settings.MaxPhotos <= 0 {
		settings.MaxPhotos = DefaultSettings().MaxPhotos
	}

	return &Service{
		registry: deps.Registry,
		ledger:   deps.Ledger,
		samples:  deps.Samples,
		detector: deps.Detector,
		trainer:  deps.Trainer,
		logger:   deps.Logger,
		clock:    deps.Clock,
		ids:      deps.IDs,
		metrics:  deps.Metrics,
		progress: deps.Progress,
		settings: settings,
	}
}

// Students returns the registry in id order.
func (s *Service) Students() ([]*Student, error) {
	roster, err := s.registry.Load()
	if err != nil {
		return nil, err
	}
	return roster.Students(), nil
}

// Attendance returns ledger records, optionally restricted to one DD/MM/YYYY date.
func (s *Service) Attendance(date string) ([]*Event, error) {
	events, err := s.ledger.List()
	if err != nil {
		return nil, err
	}
	if date == "" {
		return events, nil
	}
	filtered := events[:0]
	for _, e := range events {
		if e.Date() == date {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}
