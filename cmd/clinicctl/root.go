package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pegaso-health/clinicctl/internal/api"
	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/config"
	"github.com/pegaso-health/clinicctl/internal/identity"
	"github.com/pegaso-health/clinicctl/internal/toast"
	"github.com/pegaso-health/clinicctl/pkg/logging"
)

// app carries the wired services every subcommand runs against. It is built
// once in the root PersistentPreRunE so flags are resolved first.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	identity *identity.Store
	client   *api.Client
	toasts   *toast.Queue

	patients     *clinic.PatientService
	doctors      *clinic.DoctorService
	exams        *clinic.ExamService
	appointments *clinic.AppointmentService

	out io.Writer

	jsonOut     bool
	showDetails bool
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	var (
		baseURL string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:           "clinicctl",
		Short:         "Gestione appuntamenti della clinica da riga di comando",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is a convenience for local development; real env wins.
			_ = godotenv.Load()

			a.cfg = config.Load()
			if baseURL != "" {
				a.cfg.APIBaseURL = baseURL
			}
			if timeout > 0 {
				a.cfg.HTTPTimeout = timeout
			}
			a.logger = logging.New(a.cfg.LogLevel, a.cfg.LogFormat)

			path := a.cfg.IdentityFile
			if path == "" {
				var err error
				path, err = identity.DefaultPath()
				if err != nil {
					return err
				}
			}
			store, err := identity.NewStore(path, a.logger)
			if err != nil {
				return err
			}
			a.identity = store
			a.client = api.NewClient(a.cfg.APIBaseURL, store, a.logger, api.WithTimeout(a.cfg.HTTPTimeout))

			a.patients = clinic.NewPatientService(a.client)
			a.doctors = clinic.NewDoctorService(a.client)
			a.exams = clinic.NewExamService(a.client)
			a.appointments = clinic.NewAppointmentService(a.client)

			// Feedback messages go through the toast queue and land on
			// stderr, keeping stdout parseable.
			a.toasts = toast.NewQueue()
			a.toasts.Subscribe(func(t toast.Toast) {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", t.Level, t.Message)
			})

			a.out = cmd.OutOrStdout()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "URL base del backend (default da CLINIC_API_BASE_URL)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout delle richieste HTTP")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output in formato JSON")
	root.PersistentFlags().BoolVar(&a.showDetails, "show-details", false, "mostra i messaggi di errore originali del server")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newHealthCmd(a),
		newExamsCmd(a),
		newDoctorsCmd(a),
		newPatientsCmd(a),
		newAppointmentsCmd(a),
		newBookCmd(a),
		newAdminCmd(a),
	)
	return root
}

// fail normalizes backend errors into a user-facing message, queues it as an
// error toast and returns it so cobra sets the exit code.
func (a *app) fail(err error, fallback string) error {
	msg := api.UserMessage(err, fallback, a.showDetails)
	a.toasts.Error(msg)
	return errors.New(msg)
}

func (a *app) success(msg string) {
	a.toasts.Success(msg)
}
