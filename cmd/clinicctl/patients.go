package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/identity"
	"github.com/pegaso-health/clinicctl/internal/validate"
)

func newPatientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Pazienti della clinica",
	}
	cmd.AddCommand(
		newPatientsListCmd(a),
		newPatientsShowCmd(a),
		newPatientsAppointmentsCmd(a),
		newPatientsRegisterCmd(a),
		newPatientsProfileCmd(a),
	)
	return cmd
}

func newPatientsListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Elenca i pazienti (per la selezione dell'identità demo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = a.cfg.SelectorLimit
			}
			patients, err := a.patients.ListForSelector(cmd.Context(), limit)
			if err != nil {
				return a.fail(err, "Impossibile caricare i pazienti.")
			}
			a.renderPatients(patients)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "numero massimo di risultati")
	return cmd
}

func newPatientsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Dettaglio di un paziente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patient, err := a.patients.Detail(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err, "Impossibile caricare il paziente.")
			}
			if a.printJSON(patient) {
				return nil
			}
			cmd.Printf("%s (%s)\n", patient.FullName(), patient.ID)
			if patient.DateOfBirth != "" {
				cmd.Printf("  Nascita:  %s\n", patient.DateOfBirth)
			}
			if patient.Email != "" {
				cmd.Printf("  Email:    %s\n", patient.Email)
			}
			if patient.PhoneNumber != "" {
				cmd.Printf("  Telefono: %s\n", patient.PhoneNumber)
			}
			return nil
		},
	}
}

func newPatientsAppointmentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "appointments <id>",
		Short: "Appuntamenti prenotati da un paziente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appointments, err := a.patients.Appointments(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err, "Impossibile caricare gli appuntamenti.")
			}
			a.renderAppointments(appointments)
			return nil
		},
	}
}

// patientFormFlags binds the shared registration/update flags.
type patientFormFlags struct {
	firstName, lastName string
	dateOfBirth, gender string
	email, phone        string
}

func (f *patientFormFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "nome")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "cognome")
	cmd.Flags().StringVar(&f.dateOfBirth, "date-of-birth", "", "data di nascita (aaaa-mm-gg)")
	cmd.Flags().StringVar(&f.gender, "gender", "", "genere (M/F)")
	cmd.Flags().StringVar(&f.email, "email", "", "email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "telefono (normalizzato in +39)")
}

func (f *patientFormFlags) request() (clinic.CreatePatientRequest, error) {
	phone := validate.EnsurePhonePrefix(validate.NormalizePhoneNumber(f.phone))
	fieldErrors := validate.PatientForm(validate.PatientFormData{
		FirstName:   f.firstName,
		LastName:    f.lastName,
		Email:       f.email,
		DateOfBirth: f.dateOfBirth,
		PhoneNumber: phone,
	})
	if len(fieldErrors) > 0 {
		msgs := make([]string, 0, len(fieldErrors))
		for field, msg := range fieldErrors {
			msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
		}
		return clinic.CreatePatientRequest{}, fmt.Errorf("dati non validi:\n  %s", strings.Join(msgs, "\n  "))
	}
	return clinic.CreatePatientRequest{
		FirstName:   f.firstName,
		LastName:    f.lastName,
		DateOfBirth: f.dateOfBirth,
		Gender:      f.gender,
		Email:       f.email,
		PhoneNumber: phone,
	}, nil
}

func newPatientsRegisterCmd(a *app) *cobra.Command {
	var form patientFormFlags
	var login bool
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Registra un nuovo paziente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.request()
			if err != nil {
				return err
			}
			patient, err := a.patients.Create(cmd.Context(), req)
			if err != nil {
				return a.fail(err, "Registrazione non riuscita.")
			}
			a.success(fmt.Sprintf("Paziente registrato: %s (%s)", patient.FullName(), patient.ID))
			if login {
				if err := a.identity.SetActive(identity.RolePatient, patient.ID); err != nil {
					return err
				}
				a.success("Identità attiva aggiornata al nuovo paziente.")
			}
			if a.printJSON(patient) {
				return nil
			}
			cmd.Println(patient.ID)
			return nil
		},
	}
	form.bind(cmd)
	cmd.Flags().BoolVar(&login, "login", false, "attiva subito l'identità del nuovo paziente")
	return cmd
}

func newPatientsProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profilo del paziente attivo",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Mostra il profilo corrente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patient, err := a.patients.CurrentProfile(cmd.Context())
			if err != nil {
				return a.fail(err, "Impossibile caricare il profilo.")
			}
			if a.printJSON(patient) {
				return nil
			}
			cmd.Printf("%s (%s)\n", patient.FullName(), patient.ID)
			return nil
		},
	}

	var form patientFormFlags
	update := &cobra.Command{
		Use:   "update",
		Short: "Aggiorna il profilo corrente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.request()
			if err != nil {
				return err
			}
			patient, err := a.patients.UpdateProfile(cmd.Context(), req)
			if err != nil {
				return a.fail(err, "Aggiornamento non riuscito.")
			}
			a.success(fmt.Sprintf("Profilo aggiornato: %s", patient.FullName()))
			return nil
		},
	}
	form.bind(update)

	del := &cobra.Command{
		Use:   "delete",
		Short: "Elimina il profilo corrente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("operazione distruttiva: confermare con --yes")
			}
			if err := a.patients.DeleteProfile(cmd.Context()); err != nil {
				return a.fail(err, "Impossibile eliminare il profilo.")
			}
			if err := a.identity.ClearAll(); err != nil {
				return err
			}
			a.success("Profilo eliminato. Gli appuntamenti aperti sono stati annullati.")
			return nil
		},
	}
	del.Flags().Bool("yes", false, "conferma l'eliminazione")

	cmd.AddCommand(show, update, del)
	return cmd
}
