package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"sync"

	"attend-go/internal/attend"
	"attend-go/internal/config"
	"attend-go/internal/encryption"
	"attend-go/internal/metrics"
	"attend-go/internal/samples"
	"attend-go/internal/store"
)

// Operator is an operator surface that holds a resource (a window) until closed.
type Operator interface {
	attend.Operator
	Close() error
}

// Vision supplies the camera and face processing implementations.
type Vision struct {
	Camera attend.CameraSource
	// Detector is called once, on first use, so commands that never look at
	// a frame do not need the cascade file.
	Detector    func() (attend.Detector, error)
	Trainer     attend.FaceTrainer
	NewOperator func() Operator
}

// Options tune the app outside of the config file.
type Options struct {
	Verbose bool
	// Out receives progress output. Defaults to stderr.
	Out io.Writer
	// Passphrase reads the sample key passphrase. Defaults to a terminal prompt.
	Passphrase func(prompt string) (string, error)
	Clock      attend.Clock
	IDs        attend.IDGenerator
}

// AttendApp is the application layer between the CLI and attend.Service.
// It constructs all dependencies from config and closes them on Close.
type AttendApp struct {
	cfg        *config.Config
	stores     *store.Stores
	samples    attend.SampleStore
	encryptor  attend.Encryptor
	detector   *lazyDetector
	recorder   *metrics.Recorder
	service    *attend.Service
	vision     Vision
	passphrase func(prompt string) (string, error)
	clock      attend.Clock
	op         *Operation
	logger     *slog.Logger
	logFile    *os.File
	unlocked   bool
}

// NewAttendApp creates a fully wired AttendApp from the given config.
// operation names the CLI command being run (e.g. "Register", "Console").
// The caller must call Close when done.
func NewAttendApp(cfg *config.Config, operation string, v Vision, opts Options) (*AttendApp, error) {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.Passphrase == nil {
		opts.Passphrase = readPassphrase
	}
	if opts.Clock == nil {
		opts.Clock = attend.RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = attend.UUIDGenerator{}
	}

	op := NewOperation(operation, opts.Clock, opts.IDs)
	logger, logFile, err := newLogger(cfg.LogDir, op.SessionID, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	stores, err := store.NewStoresFromConfig(cfg.Storage, cfg.Recognition)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		stores.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	sampleStore, err := samples.NewSampleStoreFromConfig(cfg.Samples, enc)
	if err != nil {
		stores.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating sample store: %w", err)
	}

	detector := &lazyDetector{load: v.Detector}
	recorder := metrics.NewRecorder()
	svc := attend.NewService(attend.Dependencies{
		Registry: stores.Registry,
		Ledger:   stores.Ledger,
		Samples:  sampleStore,
		Detector: detector,
		Trainer:  v.Trainer,
		Logger:   &slogAdapter{l: logger},
		Clock:    opts.Clock,
		IDs:      opts.IDs,
		Metrics:  recorder,
		Progress: newBarProgress(opts.Out),
	}, attend.Settings{
		Threshold: cfg.Recognition.Threshold,
		MaxPhotos: cfg.Recognition.MaxPhotos,
	})

	logger.Debug("app started", "operation", operation, "storage", cfg.Storage.Type, "samples", cfg.Samples.Type)

	return &AttendApp{
		cfg:        cfg,
		stores:     stores,
		samples:    sampleStore,
		encryptor:  enc,
		detector:   detector,
		recorder:   recorder,
		service:    svc,
		vision:     v,
		passphrase: opts.Passphrase,
		clock:      opts.Clock,
		op:         op,
		logger:     logger,
		logFile:    logFile,
	}, nil
}

// RegisterStudent enrolls a new student from the camera.
func (a *AttendApp) RegisterStudent(ctx context.Context, name string) (*attend.Student, error) {
	operator := a.vision.NewOperator()
	defer operator.Close()

	st, err := a.service.Enroll(ctx, name, a.vision.Camera, operator)
	return st, a.op.Record(err)
}

// StartRecognition trains on all stored samples and runs the attendance loop
// until the operator quits. Metrics are written after the session when a
// textfile path is configured.
func (a *AttendApp) StartRecognition(ctx context.Context) (*attend.SessionSummary, error) {
	if err := a.unlockSamples(); err != nil {
		return nil, a.op.Record(err)
	}

	model, err := a.service.Train(ctx)
	if err != nil {
		return nil, a.op.Record(err)
	}
	defer model.Close()

	operator := a.vision.NewOperator()
	defer operator.Close()

	summary, err := a.service.Recognize(ctx, model, a.vision.Camera, operator)
	a.writeMetrics()
	return summary, a.op.Record(err)
}

// Students returns all registered students in id order.
func (a *AttendApp) Students() ([]*attend.Student, error) {
	students, err := a.service.Students()
	return students, a.op.Record(err)
}

// Attendance returns attendance records, restricted to date (DD/MM/YYYY) when non-empty.
func (a *AttendApp) Attendance(date string) ([]*attend.Event, error) {
	events, err := a.service.Attendance(date)
	return events, a.op.Record(err)
}

// unlockSamples asks for the passphrase once per app when samples are encrypted.
func (a *AttendApp) unlockSamples() error {
	l, ok := a.samples.(samples.Lockable)
	if !ok || !l.Encrypted() || a.unlocked {
		return nil
	}

	pass, err := a.passphrase("Passphrase to unlock face samples: ")
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}
	dc, err := a.encryptor.Unlock(pass)
	if err != nil {
		return fmt.Errorf("unlocking face samples: %w", err)
	}
	l.Unlock(dc)
	a.unlocked = true
	a.logger.Info("face samples unlocked")
	return nil
}

func (a *AttendApp) writeMetrics() {
	path := a.cfg.Metrics.TextfilePath
	if path == "" {
		return
	}
	if err := a.recorder.WriteTextfile(path); err != nil {
		a.logger.Warn("writing metrics", "path", path, "error", err)
	}
}

// Close logs the operation outcome and releases all resources.
func (a *AttendApp) Close() error {
	a.logger.Info("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status,
		"elapsed", a.op.Elapsed(a.clock).String())

	var errs []error
	if err := a.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing detector: %w", err))
	}
	if err := a.stores.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing storage: %w", err))
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return errors.Join(errs...)
}

// InitKeys generates the sample encryption key pair after asking for a
// passphrase twice.
func InitKeys(cfg *config.Config, passphrase func(prompt string) (string, error)) error {
	if passphrase == nil {
		passphrase = readPassphrase
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return err
	}
	if enc.IsConfigured() {
		return encryption.ErrKeysExist
	}

	first, err := passphrase("New passphrase: ")
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}
	second, err := passphrase("Repeat passphrase: ")
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}
	if first != second {
		return fmt.Errorf("passphrases do not match")
	}
	return enc.Setup(first)
}

// lazyDetector loads the real detector on first use.
type lazyDetector struct {
	load func() (attend.Detector, error)

	once sync.Once
	d    attend.Detector
	err  error
}

func (l *lazyDetector) DetectFaces(frame image.Image) ([]image.Rectangle, error) {
	l.once.Do(func() {
		if l.load == nil {
			l.err = fmt.Errorf("no face detector configured")
			return
		}
		l.d, l.err = l.load()
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.d.DetectFaces(frame)
}

func (l *lazyDetector) Close() error {
	if c, ok := l.d.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
