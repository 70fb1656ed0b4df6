package attend

import "image"

// SampleStore keeps captured face photos per student. Samples are consumed only
// by the trainer.
type SampleStore interface {
	// Put writes the seq-th photo for the student and returns its name.
	Put(student *Student, seq int, frame image.Image) (string, error)

	// List returns the student's photo names in a stable order.
	// A student without a sample location has no photos.
	List(student *Student) ([]string, error)

	// Load decodes one photo.
	Load(student *Student, name string) (image.Image, error)

	// Delete removes every photo of the student. Deleting a student without
	// photos is not an error.
	Delete(student *Student) error
}
