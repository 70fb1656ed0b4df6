package attend

import (
	"context"
	"errors"
	"fmt"
)

// Train rebuilds the model from every stored sample. Students are visited in
// registry order and their photos in store order; each detected face in a
// photo becomes one sample, and labels are assigned on first encounter.
//
// Returns ErrNotTrained (wrapping ErrNoStudents or ErrNoSamples) when there
// is nothing to train on.
func (s *Service) Train(ctx context.Context) (*TrainedModel, error) {
	roster, err := s.registry.Load()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	if roster.Len() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNotTrained, ErrNoStudents)
	}

	type photo struct {
		student *Student
		name    string
	}
	var photos []photo
	for _, student := range roster.Students() {
		names, err := s.samples.List(student)
		if err != nil {
			return nil, fmt.Errorf("listing samples for %s: %w", student.ID, err)
		}
		for _, name := range names {
			photos = append(photos, photo{student: student, name: name})
		}
	}

	labels := NewLabelIndex()
	var samples []Sample

	s.progress.Start(len(photos), "Extracting faces")
	defer s.progress.Done()
	for _, p := range photos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := s.samples.Load(p.student, p.name)
		s.progress.Step()
		if err != nil {
			if errors.Is(err, ErrSamplesLocked) {
				return nil, err
			}
			s.logger.Warn("skipping unreadable sample", "student_id", p.student.ID, "photo", p.name, "error", err)
			continue
		}

		boxes, err := s.detector.DetectFaces(img)
		if err != nil {
			return nil, fmt.Errorf("detecting faces in %s: %w", p.name, err)
		}
		for _, box := range boxes {
			face := GrayCrop(img, box)
			if face == nil {
				continue
			}
			label := labels.Assign(Identity{StudentID: p.student.ID, Name: p.student.Name})
			samples = append(samples, Sample{Face: face, Label: label})
		}
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNotTrained, ErrNoSamples)
	}

	model, err := s.trainer.Train(samples)
	if err != nil {
		return nil, fmt.Errorf("training classifier: %w", err)
	}

	trained := NewTrainedModel(s.ids.New(), model, labels, len(samples))
	s.logger.Info("training complete", "generation", trained.Generation, "students", labels.Len(), "samples", len(samples))
	return trained, nil
}
