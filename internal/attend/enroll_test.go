package attend_test

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"attend-go/internal/attend"
	"attend-go/internal/testutil"
)

func TestService_Enroll(t *testing.T) {
	ctx := context.Background()
	capture := attend.CommandCapture

	t.Run("captures photos and commits student", func(t *testing.T) {
		b := testutil.NewBackends()
		svc := b.NewService()
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}
		op := &testutil.ScriptedOperator{Commands: []attend.Command{capture, capture, attend.CommandNone, capture}}

		st, err := svc.Enroll(ctx, "  Alice ", src, op)
		if err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
		if st.ID != "STU001" || st.Name != "Alice" {
			t.Errorf("student = %s/%q, want STU001/Alice", st.ID, st.Name)
		}
		if st.PhotosCount != 3 {
			t.Errorf("PhotosCount = %d, want 3", st.PhotosCount)
		}
		if !st.RegisteredAt.Equal(b.Clock.Now()) {
			t.Errorf("RegisteredAt = %v, want %v", st.RegisteredAt, b.Clock.Now())
		}
		if n := b.Samples.Count(st); n != 3 {
			t.Errorf("stored photos = %d, want 3", n)
		}
		if !src.Released() {
			t.Error("camera not released")
		}

		roster, _ := b.Registry.Load()
		if roster.Get("STU001") == nil {
			t.Error("student not saved to registry")
		}
	})

	t.Run("assigns next id", func(t *testing.T) {
		b := testutil.NewBackends()
		roster, _ := b.Registry.Load()
		roster.Put(&attend.Student{ID: "STU007", Name: "Grace"})
		b.Registry.Save(roster)

		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}
		st, err := b.NewService().Enroll(ctx, "Heidi", src, &testutil.ScriptedOperator{Commands: []attend.Command{capture}})
		if err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
		if st.ID != "STU008" {
			t.Errorf("ID = %s, want STU008", st.ID)
		}
	})

	t.Run("empty name never opens camera", func(t *testing.T) {
		b := testutil.NewBackends()
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}

		_, err := b.NewService().Enroll(ctx, "   ", src, &testutil.ScriptedOperator{})
		if !errors.Is(err, attend.ErrInvalidName) {
			t.Errorf("Enroll() error = %v, want ErrInvalidName", err)
		}
		if src.Opens != 0 {
			t.Errorf("camera opened %d times, want 0", src.Opens)
		}
	})

	t.Run("duplicate name leaves registry unchanged", func(t *testing.T) {
		b := testutil.NewBackends()
		svc := b.NewService()
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}
		if _, err := svc.Enroll(ctx, "Alice", src, &testutil.ScriptedOperator{Commands: []attend.Command{capture}}); err != nil {
			t.Fatalf("first Enroll() error = %v", err)
		}

		_, err := svc.Enroll(ctx, "alice", src, &testutil.ScriptedOperator{Commands: []attend.Command{capture}})
		if !errors.Is(err, attend.ErrDuplicateName) {
			t.Errorf("Enroll() error = %v, want ErrDuplicateName", err)
		}
		if src.Opens != 1 {
			t.Errorf("camera opened %d times, want 1", src.Opens)
		}
		roster, _ := b.Registry.Load()
		if roster.Len() != 1 {
			t.Errorf("registry has %d students, want 1", roster.Len())
		}
	})

	t.Run("capture without a face is ignored", func(t *testing.T) {
		b := testutil.NewBackends()
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.EmptyFrame()}}
		op := &testutil.ScriptedOperator{Commands: []attend.Command{capture, attend.CommandNone}}

		_, err := b.NewService().Enroll(ctx, "Alice", src, op)
		if !errors.Is(err, attend.ErrNoPhotos) {
			t.Errorf("Enroll() error = %v, want ErrNoPhotos", err)
		}
		if len(op.Views) < 2 || !containsLine(op.Views[1].Lines, "No face detected!") {
			t.Error("second view does not warn about the missing face")
		}
		roster, _ := b.Registry.Load()
		if roster.Len() != 0 {
			t.Errorf("registry has %d students, want 0", roster.Len())
		}
		if !src.Released() {
			t.Error("camera not released")
		}
	})

	t.Run("quit before capture commits nothing", func(t *testing.T) {
		b := testutil.NewBackends()
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}

		_, err := b.NewService().Enroll(ctx, "Alice", src, &testutil.ScriptedOperator{})
		if !errors.Is(err, attend.ErrNoPhotos) {
			t.Errorf("Enroll() error = %v, want ErrNoPhotos", err)
		}
	})

	t.Run("stops at max photos", func(t *testing.T) {
		b := testutil.NewBackends()
		svc := attend.NewService(b.Dependencies(), attend.Settings{MaxPhotos: 3})
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}
		op := &testutil.ScriptedOperator{Then: capture}

		st, err := svc.Enroll(ctx, "Alice", src, op)
		if err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
		if st.PhotosCount != 3 {
			t.Errorf("PhotosCount = %d, want 3", st.PhotosCount)
		}
		if len(op.Views) != 3 {
			t.Errorf("polled %d times, want 3", len(op.Views))
		}
	})

	t.Run("view shows progress", func(t *testing.T) {
		b := testutil.NewBackends()
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}
		op := &testutil.ScriptedOperator{Commands: []attend.Command{capture, attend.CommandNone}}

		if _, err := b.NewService().Enroll(ctx, "Alice", src, op); err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
		v := op.Views[1]
		if v.Title != "Registration - Alice - Press S to capture, Q to finish" {
			t.Errorf("Title = %q", v.Title)
		}
		if len(v.Faces) != 1 || v.Faces[0].Text != "Photos: 1/10" {
			t.Errorf("Faces = %+v, want one box labeled Photos: 1/10", v.Faces)
		}
		if !containsLine(v.Lines, "ID: STU001") {
			t.Errorf("Lines = %v, want ID: STU001", v.Lines)
		}
	})

	t.Run("camera open failure", func(t *testing.T) {
		b := testutil.NewBackends()
		src := &testutil.ScriptedSource{OpenErr: errors.New("no device")}

		_, err := b.NewService().Enroll(ctx, "Alice", src, &testutil.ScriptedOperator{})
		if !errors.Is(err, attend.ErrCamera) {
			t.Errorf("Enroll() error = %v, want ErrCamera", err)
		}
	})

	t.Run("camera failure on first frame releases camera", func(t *testing.T) {
		b := testutil.NewBackends()
		src := &testutil.ScriptedSource{}

		_, err := b.NewService().Enroll(ctx, "Alice", src, &testutil.ScriptedOperator{})
		if !errors.Is(err, attend.ErrCamera) {
			t.Errorf("Enroll() error = %v, want ErrCamera", err)
		}
		if !src.Released() {
			t.Error("camera not released")
		}
	})

	t.Run("camera failure after captures keeps photos", func(t *testing.T) {
		b := testutil.NewBackends()
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}, FailAfter: 2}
		op := &testutil.ScriptedOperator{Then: capture}

		st, err := b.NewService().Enroll(ctx, "Alice", src, op)
		if err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
		if st.PhotosCount != 2 {
			t.Errorf("PhotosCount = %d, want 2", st.PhotosCount)
		}
	})

	t.Run("cancelled context commits nothing", func(t *testing.T) {
		b := testutil.NewBackends()
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}
		op := &testutil.ScriptedOperator{
			Then:   capture,
			OnPoll: func(int, *attend.View) { cancel() },
		}

		_, err := b.NewService().Enroll(cctx, "Alice", src, op)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Enroll() error = %v, want context.Canceled", err)
		}
		roster, _ := b.Registry.Load()
		if roster.Len() != 0 {
			t.Errorf("registry has %d students, want 0", roster.Len())
		}
		if n := b.Samples.Count(&attend.Student{ID: "STU001", Name: "Alice"}); n != 0 {
			t.Errorf("stored photos = %d, want 0", n)
		}
		if !src.Released() {
			t.Error("camera not released")
		}
	})

	t.Run("cancelled enrollment leaves nothing for the next one", func(t *testing.T) {
		b := testutil.NewBackends()
		svc := b.NewService()
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}

		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		first := &testutil.ScriptedOperator{
			Then: capture,
			OnPoll: func(poll int, _ *attend.View) {
				if poll == 5 {
					cancel()
				}
			},
		}
		if _, err := svc.Enroll(cctx, "Alice", src, first); !errors.Is(err, context.Canceled) {
			t.Fatalf("first Enroll() error = %v, want context.Canceled", err)
		}

		second := &testutil.ScriptedOperator{Commands: []attend.Command{capture, capture, attend.CommandFinish}}
		st, err := svc.Enroll(ctx, "Alice", src, second)
		if err != nil {
			t.Fatalf("second Enroll() error = %v", err)
		}
		if st.ID != "STU001" || st.PhotosCount != 2 {
			t.Errorf("student = %s with %d photos, want STU001 with 2", st.ID, st.PhotosCount)
		}
		if n := b.Samples.Count(st); n != 2 {
			t.Errorf("stored photos = %d, want 2", n)
		}

		model, err := svc.Train(ctx)
		if err != nil {
			t.Fatalf("Train() error = %v", err)
		}
		defer model.Close()
		if model.Samples != 2 {
			t.Errorf("trained on %d samples, want 2", model.Samples)
		}
	})

	t.Run("failed registry save discards photos", func(t *testing.T) {
		b := testutil.NewBackends()
		deps := b.Dependencies()
		deps.Registry = &failingRegistry{Registry: b.Registry}
		svc := attend.NewService(deps, attend.DefaultSettings())
		src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}

		_, err := svc.Enroll(ctx, "Alice", src, &testutil.ScriptedOperator{Commands: []attend.Command{capture, capture}})
		if err == nil {
			t.Fatal("Enroll() succeeded with a failing registry")
		}
		if n := b.Samples.Count(&attend.Student{ID: "STU001", Name: "Alice"}); n != 0 {
			t.Errorf("stored photos = %d, want 0", n)
		}
	})

	t.Run("path-like names are rejected", func(t *testing.T) {
		for _, name := range []string{"../Alice", "a/b", `a\b`, "Al\x00ice"} {
			b := testutil.NewBackends()
			src := &testutil.ScriptedSource{Frames: []image.Image{testutil.NewFaceFrame(100)}}

			_, err := b.NewService().Enroll(ctx, name, src, &testutil.ScriptedOperator{})
			if !errors.Is(err, attend.ErrInvalidName) {
				t.Errorf("Enroll(%q) error = %v, want ErrInvalidName", name, err)
			}
			if src.Opens != 0 {
				t.Errorf("Enroll(%q) opened the camera", name)
			}
		}
	})
}

// failingRegistry loads normally and fails every Save.
type failingRegistry struct {
	attend.Registry
}

func (failingRegistry) Save(*attend.Roster) error {
	return errors.New("disk full")
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if strings.Contains(l, want) {
			return true
		}
	}
	return false
}
