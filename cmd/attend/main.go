package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"attend-go/internal/app"
	"attend-go/internal/attend"
	"attend-go/internal/config"
	"attend-go/internal/vision"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an AttendApp wired to the local camera.
// The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Register", "Console").
func newApp(cmd *cobra.Command, operation string) (*app.AttendApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := app.LoadConfig(defaults)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	a, err := app.NewAttendApp(cfg, operation, localVision(cfg), app.Options{Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func localVision(cfg *config.Config) app.Vision {
	return app.Vision{
		Camera: vision.DeviceSource{Device: cfg.Camera.Device},
		Detector: func() (attend.Detector, error) {
			return vision.NewCascadeDetector(cfg.Detector)
		},
		Trainer: vision.LBPHTrainer{},
		NewOperator: func() app.Operator {
			return vision.NewWindowOperator()
		},
	}
}

var rootCmd = &cobra.Command{
	Use:   "attend",
	Short: "Face recognition attendance tracker",
	Long:  "Run without a command to open the interactive menu.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Console")
		if err != nil {
			return err
		}
		defer a.Close()

		return app.RunConsole(cmd.Context(), os.Stdin, os.Stdout, a)
	},
}

// register command
var registerCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Register a new student from the camera",
	Long:  "Press 's' to save a photo, Enter to finish early, 'q' to stop.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Register")
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.RegisterStudent(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("registering student: %w", err)
		}

		fmt.Printf("Student %s registered successfully with ID: %s\n", st.Name, st.ID)
		fmt.Printf("Photos: %d\n", st.PhotosCount)
		return nil
	},
}

// start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start taking attendance",
	Long:  "Trains on all registered students and marks attendance for recognized faces. Press 'q' to stop.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Recognize")
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.StartRecognition(cmd.Context())
		if err != nil {
			return fmt.Errorf("attendance session: %w", err)
		}

		fmt.Printf("Frames processed: %d\n", summary.Frames)
		fmt.Printf("Marked present:   %d\n", summary.Marked)
		fmt.Printf("Already marked:   %d\n", summary.AlreadyMarked)
		return nil
	},
}

// students command
var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List registered students",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListStudents")
		if err != nil {
			return err
		}
		defer a.Close()

		students, err := a.Students()
		if err != nil {
			return err
		}

		app.PrintStudents(os.Stdout, students)
		return nil
	},
}

// attendance command
var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "List attendance records",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		today, _ := cmd.Flags().GetBool("today")
		if today {
			date = time.Now().Format(attend.DateLayout)
		}
		if date != "" {
			if _, err := time.Parse(attend.DateLayout, date); err != nil {
				return fmt.Errorf("invalid date %q, want DD/MM/YYYY", date)
			}
		}

		a, err := newApp(cmd, "ListAttendance")
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.Attendance(date)
		if err != nil {
			return err
		}

		app.PrintAttendance(os.Stdout, events)
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults.BaseDir)
		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Base Dir: %s\n", defaults.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := app.LoadConfig(defaults)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("# Configuration from %s\n\n", defaults.ConfigPath)
		m := &config.Manager{}
		return m.Write(os.Stdout, cfg)
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage face sample encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the key pair used to encrypt face samples",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := app.LoadConfig(defaults)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		if err := app.InitKeys(cfg, nil); err != nil {
			return fmt.Errorf("initializing keys: %w", err)
		}

		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s\n", cfg.Encryption.PrivateKeyPath)
		fmt.Println("Set samples.encrypted = true in the config to encrypt new photos.")
		return nil
	},
}

func init() {
	cobra.OnInitialize(func() {
		// A .env in the working directory may set ATTEND_HOME or ATTEND_CONFIG_PATH.
		_ = godotenv.Load()
	})
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// root commands
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(attendanceCmd)
	attendanceCmd.Flags().StringP("date", "d", "", "Only show records for this date (DD/MM/YYYY)")
	attendanceCmd.Flags().Bool("today", false, "Only show records for today")
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
}
