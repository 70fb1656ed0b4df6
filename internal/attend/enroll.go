package attend

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// Enroll registers a new student by capturing face photos.
//
// The name is trimmed and must pass CheckName and not already be registered
// (case-insensitive); otherwise the camera is never opened. The student is
// committed to the registry only if at least one photo was captured. Photos of
// an enrollment that is not committed are deleted.
func (s *Service) Enroll(ctx context.Context, rawName string, src CameraSource, op Operator) (*Student, error) {
	name := strings.TrimSpace(rawName)
	if err := CheckName(name); err != nil {
		return nil, err
	}

	roster, err := s.registry.Load()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	if existing := roster.FindByName(name); existing != nil {
		return nil, fmt.Errorf("%w: %q has id %s", ErrDuplicateName, name, existing.ID)
	}

	student := &Student{ID: roster.NextID(), Name: name}
	// The id is not in the registry yet; anything stored under it is left over
	// from an enrollment that never committed.
	if err := s.samples.Delete(student); err != nil {
		return nil, fmt.Errorf("clearing stale samples: %w", err)
	}
	s.logger.Info("enrollment started", "student_id", student.ID, "name", name)

	count, captureErr := s.capturePhotos(ctx, student, src, op)
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.discardSamples(student)
		return nil, ctxErr
	}
	if count == 0 {
		if captureErr != nil {
			return nil, captureErr
		}
		return nil, ErrNoPhotos
	}
	if captureErr != nil {
		s.logger.Warn("capture ended early", "student_id", student.ID, "photos", count, "error", captureErr)
	}

	student.RegisteredAt = s.clock.Now()
	student.PhotosCount = count
	if err := roster.Add(student); err != nil {
		s.discardSamples(student)
		return nil, err
	}
	if err := s.registry.Save(roster); err != nil {
		s.discardSamples(student)
		return nil, fmt.Errorf("saving registry: %w", err)
	}

	s.logger.Info("student registered", "student_id", student.ID, "name", name, "photos", count)
	return student, nil
}

// discardSamples removes the photos of an enrollment that was not committed.
func (s *Service) discardSamples(student *Student) {
	if err := s.samples.Delete(student); err != nil {
		s.logger.Warn("discarding samples", "student_id", student.ID, "error", err)
	}
}

// capturePhotos runs the bounded capture loop and returns the number of
// photos written. The camera is closed on every return path.
func (s *Service) capturePhotos(ctx context.Context, student *Student, src CameraSource, op Operator) (int, error) {
	cam, err := src.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: opening camera: %v", ErrCamera, err)
	}
	defer func() {
		if err := cam.Close(); err != nil {
			s.logger.Warn("closing camera", "error", err)
		}
	}()

	count := 0
	note := ""
	for count < s.settings.MaxPhotos {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		frame, err := cam.Read()
		if err != nil {
			return count, fmt.Errorf("%w: reading frame: %v", ErrCamera, err)
		}

		boxes, err := s.detector.DetectFaces(frame)
		if err != nil {
			return count, fmt.Errorf("detecting faces: %w", err)
		}

		switch op.Poll(s.enrollmentView(student, frame, boxes, count, note)) {
		case CommandCapture:
			if len(boxes) == 0 {
				note = "No face detected!"
				s.logger.Debug("capture ignored, no face in frame", "student_id", student.ID)
				continue
			}
			photo, err := s.samples.Put(student, count+1, frame)
			if err != nil {
				return count, fmt.Errorf("saving photo: %w", err)
			}
			count++
			note = fmt.Sprintf("Photo %d saved", count)
			s.logger.Info("photo saved", "student_id", student.ID, "photo", photo)
		case CommandFinish, CommandQuit:
			return count, nil
		}
	}

	return count, nil
}

func (s *Service) enrollmentView(student *Student, frame image.Image, boxes []image.Rectangle, count int, note string) *View {
	faces := make([]FaceMark, len(boxes))
	for i, box := range boxes {
		faces[i] = FaceMark{
			Box:   box,
			Text:  fmt.Sprintf("Photos: %d/%d", count, s.settings.MaxPhotos),
			Style: MarkCapture,
		}
	}
	lines := []string{
		"Student: " + student.Name,
		"ID: " + student.ID,
	}
	if note != "" {
		lines = append(lines, note)
	}
	return &View{
		Title: fmt.Sprintf("Registration - %s - Press S to capture, Q to finish", student.Name),
		Frame: frame,
		Faces: faces,
		Lines: lines,
	}
}
