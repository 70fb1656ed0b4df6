package attend

import (
	"context"
	"fmt"
	"image"
	"time"
)

// SessionSummary counts what one recognition session saw and wrote.
type SessionSummary struct {
	Frames        int
	Recognized    int
	Unknown       int
	Marked        int
	AlreadyMarked int
}

// Recognize runs the live attendance loop until the operator quits, the
// context is cancelled, or the camera fails.
//
// Each frame's faces are classified independently against model. A
// recognized student is written to the ledger at most once per day per
// session; later sightings that day never touch the ledger. The camera is
// closed on every exit path.
func (s *Service) Recognize(ctx context.Context, model *TrainedModel, src CameraSource, op Operator) (*SessionSummary, error) {
	cam, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening camera: %v", ErrCamera, err)
	}
	defer func() {
		if err := cam.Close(); err != nil {
			s.logger.Warn("closing camera", "error", err)
		}
	}()

	s.logger.Info("recognition started", "generation", model.Generation, "students", model.Labels.Len())

	summary := &SessionSummary{}
	marked := newMarkedToday()
	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("recognition interrupted", "frames", summary.Frames)
			return summary, err
		}

		frame, err := cam.Read()
		if err != nil {
			return summary, fmt.Errorf("%w: reading frame: %v", ErrCamera, err)
		}
		summary.Frames++
		s.metrics.FrameProcessed()

		boxes, err := s.detector.DetectFaces(frame)
		if err != nil {
			return summary, fmt.Errorf("detecting faces: %w", err)
		}

		faces := make([]FaceMark, 0, len(boxes))
		for _, box := range boxes {
			mark, err := s.handleFace(model, frame, box, marked, summary)
			if err != nil {
				return summary, err
			}
			faces = append(faces, mark)
		}

		view := &View{
			Title: "Attendance - Multiple Face Detection",
			Frame: frame,
			Faces: faces,
			Lines: []string{"Multiple Face Detection Active", "Press 'q' to quit"},
		}
		switch op.Poll(view) {
		case CommandQuit, CommandFinish:
			s.logger.Info("recognition stopped", "frames", summary.Frames, "marked", summary.Marked)
			return summary, nil
		}
	}
}

// handleFace classifies one box and, for a recognized student not yet handled
// today, writes attendance.
func (s *Service) handleFace(model *TrainedModel, frame image.Image, box image.Rectangle, marked *markedToday, summary *SessionSummary) (FaceMark, error) {
	face := GrayCrop(frame, box)
	if face == nil {
		summary.Unknown++
		return FaceMark{Box: box, Text: "Unknown"}, nil
	}

	match, err := model.Classify(face, s.settings.Threshold)
	if err != nil {
		return FaceMark{}, err
	}
	s.metrics.FaceClassified(match.Recognized, match.Confidence)

	if !match.Recognized {
		summary.Unknown++
		return FaceMark{Box: box, Text: "Unknown", Confidence: match.Confidence, ShowConfidence: true}, nil
	}
	summary.Recognized++

	id := match.Identity
	now := s.clock.Now()
	day := now.Format(DateLayout)
	if !marked.Has(id.StudentID, day) {
		result, err := s.MarkAttendance(id, now)
		if err != nil {
			// Not added to the marked set, so the write is retried on a later frame.
			s.logger.Error("writing attendance", "student_id", id.StudentID, "error", err)
		} else {
			marked.Add(id.StudentID, day)
			switch result {
			case Marked:
				summary.Marked++
			case AlreadyMarked:
				summary.AlreadyMarked++
			}
		}
	}

	return FaceMark{
		Box:            box,
		Text:           fmt.Sprintf("%s (%s)", id.Name, id.StudentID),
		Style:          MarkRecognized,
		Confidence:     match.Confidence,
		ShowConfidence: true,
	}, nil
}

// MarkAttendance writes one attendance event for the identity at the given
// time. The ledger decides whether the (student, date) pair is new.
func (s *Service) MarkAttendance(id Identity, at time.Time) (MarkResult, error) {
	event := &Event{StudentID: id.StudentID, Name: id.Name, At: at}
	result, err := s.ledger.Mark(event)
	if err != nil {
		return result, fmt.Errorf("marking attendance for %s: %w", id.StudentID, err)
	}
	s.metrics.AttendanceWritten(result)

	switch result {
	case Marked:
		s.logger.Info("attendance marked", "student_id", id.StudentID, "name", id.Name, "time", event.Time())
	case AlreadyMarked:
		s.logger.Info("attendance already marked", "student_id", id.StudentID, "name", id.Name, "date", event.Date())
	}
	return result, nil
}
