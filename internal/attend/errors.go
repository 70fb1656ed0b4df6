package attend

import "errors"

var (
	// ErrInvalidName is returned when a student name is empty after trimming or
	// cannot be used in a sample location.
	ErrInvalidName = errors.New("invalid student name")

	// ErrDuplicateName is returned when a name is already registered (case-insensitive).
	ErrDuplicateName = errors.New("student already registered")

	// ErrNoPhotos is returned when an enrollment session ends without a captured photo.
	ErrNoPhotos = errors.New("no photos taken")

	// ErrNotTrained is returned when no model could be built.
	ErrNotTrained = errors.New("model not trained")

	// ErrNoStudents and ErrNoSamples describe why training produced no model.
	ErrNoStudents = errors.New("no students registered")
	ErrNoSamples  = errors.New("no face data found for training")

	// ErrCamera marks a camera that could not be opened or stopped delivering frames.
	ErrCamera = errors.New("camera error")

	// ErrSamplesLocked is returned when encrypted samples are read before the key is unlocked.
	ErrSamplesLocked = errors.New("face samples are encrypted and locked")
)
