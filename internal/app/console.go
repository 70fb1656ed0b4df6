package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"attend-go/internal/attend"
)

// ConsoleActions are the operations reachable from the interactive menu.
type ConsoleActions interface {
	RegisterStudent(ctx context.Context, name string) (*attend.Student, error)
	StartRecognition(ctx context.Context) (*attend.SessionSummary, error)
	Students() ([]*attend.Student, error)
	Attendance(date string) ([]*attend.Event, error)
}

var _ ConsoleActions = (*AttendApp)(nil)

const menu = `
==================================================
Face Recognition Attendance System
==================================================
1. Register New Student
2. Start Attendance System
3. View Registered Students
4. View Attendance Records
5. Exit
`

// RunConsole runs the numbered menu until the user picks Exit, input ends,
// or ctx is cancelled. Action errors are reported and the menu continues.
func RunConsole(ctx context.Context, in io.Reader, out io.Writer, actions ConsoleActions) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	prompt := func(label string) (string, bool) {
		fmt.Fprint(out, label)
		select {
		case line, ok := <-lines:
			return strings.TrimSpace(line), ok
		case <-ctx.Done():
			return "", false
		}
	}

	for {
		fmt.Fprint(out, menu)
		choice, ok := prompt("Enter your choice (1-5): ")
		if !ok {
			fmt.Fprintln(out)
			return ctx.Err()
		}

		switch choice {
		case "1":
			name, ok := prompt("Enter student name: ")
			if !ok {
				fmt.Fprintln(out)
				return ctx.Err()
			}
			st, err := actions.RegisterStudent(ctx, name)
			if err != nil {
				if stop := reportError(ctx, out, err); stop != nil {
					return stop
				}
				continue
			}
			fmt.Fprintf(out, "Student %s registered successfully with ID: %s (%d photos)\n", st.Name, st.ID, st.PhotosCount)
		case "2":
			summary, err := actions.StartRecognition(ctx)
			if err != nil {
				if stop := reportError(ctx, out, err); stop != nil {
					return stop
				}
				continue
			}
			fmt.Fprintf(out, "Attendance session ended: %d frames, %d marked, %d already marked\n",
				summary.Frames, summary.Marked, summary.AlreadyMarked)
		case "3":
			students, err := actions.Students()
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			PrintStudents(out, students)
		case "4":
			events, err := actions.Attendance("")
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			PrintAttendance(out, events)
		case "5":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice. Please try again.")
		}
	}
}

// reportError prints err and returns a non-nil error only when the console
// must stop because ctx was cancelled.
func reportError(ctx context.Context, out io.Writer, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return ctx.Err()
	}
	fmt.Fprintf(out, "Error: %v\n", err)
	return nil
}

// PrintStudents writes the student roster as a fixed-width table.
func PrintStudents(out io.Writer, students []*attend.Student) {
	if len(students) == 0 {
		fmt.Fprintln(out, "No students registered yet.")
		return
	}
	fmt.Fprintf(out, "%-4s %-10s %-25s %-20s %s\n", "#", "ID", "Name", "Registered", "Photos")
	for i, st := range students {
		fmt.Fprintf(out, "%-4d %-10s %-25s %-20s %d\n",
			i+1, st.ID, st.Name, st.RegisteredAt.Format(attend.RegisteredLayout), st.PhotosCount)
	}
	fmt.Fprintf(out, "\nTotal: %d students\n", len(students))
}

// PrintAttendance writes attendance records as a fixed-width table.
func PrintAttendance(out io.Writer, events []*attend.Event) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No attendance records found.")
		return
	}
	fmt.Fprintf(out, "%-10s %-25s %-12s %s\n", "ID", "Name", "Date", "Time")
	for _, e := range events {
		fmt.Fprintf(out, "%-10s %-25s %-12s %s\n", e.StudentID, e.Name, e.Date(), e.Time())
	}
	fmt.Fprintf(out, "\nTotal: %d records\n", len(events))
}
