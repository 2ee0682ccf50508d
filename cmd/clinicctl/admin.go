package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/validate"
)

// newAdminCmd groups the operations reserved to the admin identity: exam
// catalog management, doctor-exam assignments and doctor registration.
func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operazioni amministrative (richiedono identità admin)",
	}
	cmd.AddCommand(newAdminExamsCmd(a), newAdminDoctorsCmd(a))
	return cmd
}

func newAdminExamsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exams",
		Short: "Gestione del catalogo esami",
	}

	var (
		name        string
		description string
		duration    int
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea un esame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if msg := validate.ExamName(name); msg != "" {
				return fmt.Errorf("name: %s", msg)
			}
			if msg := validate.ExamDuration(duration); msg != "" {
				return fmt.Errorf("duration: %s", msg)
			}
			exam, err := a.exams.Create(cmd.Context(), clinic.CreateExamRequest{
				Name:            name,
				Description:     description,
				DurationMinutes: duration,
			})
			if err != nil {
				return a.fail(err, "Creazione non riuscita.")
			}
			a.success(fmt.Sprintf("Esame creato: %s (%s)", exam.Name, exam.ID))
			cmd.Println(exam.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "nome dell'esame")
	create.Flags().StringVar(&description, "description", "", "descrizione")
	create.Flags().IntVar(&duration, "duration", 0, "durata in minuti")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("duration")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Aggiorna un esame (i flag non passati restano invariati)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req clinic.UpdateExamRequest
			if cmd.Flags().Changed("name") {
				v, _ := cmd.Flags().GetString("name")
				if msg := validate.ExamName(v); msg != "" {
					return fmt.Errorf("name: %s", msg)
				}
				req.Name = &v
			}
			if cmd.Flags().Changed("description") {
				v, _ := cmd.Flags().GetString("description")
				req.Description = &v
			}
			if cmd.Flags().Changed("duration") {
				v, _ := cmd.Flags().GetInt("duration")
				if msg := validate.ExamDuration(v); msg != "" {
					return fmt.Errorf("duration: %s", msg)
				}
				req.DurationMinutes = &v
			}
			if cmd.Flags().Changed("active") {
				v, _ := cmd.Flags().GetBool("active")
				req.IsActive = &v
			}
			exam, err := a.exams.Update(cmd.Context(), args[0], req)
			if err != nil {
				return a.fail(err, "Aggiornamento non riuscito.")
			}
			a.success(fmt.Sprintf("Esame aggiornato: %s", exam.Name))
			return nil
		},
	}
	update.Flags().String("name", "", "nuovo nome")
	update.Flags().String("description", "", "nuova descrizione")
	update.Flags().Int("duration", 0, "nuova durata in minuti")
	update.Flags().Bool("active", true, "esame prenotabile")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Elimina un esame dal catalogo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("operazione distruttiva: confermare con --yes")
			}
			if err := a.exams.Delete(cmd.Context(), args[0]); err != nil {
				return a.fail(err, "Eliminazione non riuscita.")
			}
			a.success("Esame eliminato.")
			return nil
		},
	}
	del.Flags().Bool("yes", false, "conferma l'eliminazione")

	assign := &cobra.Command{
		Use:   "assign <examID> <doctorID>",
		Short: "Assegna un medico a un esame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.exams.AssignDoctor(cmd.Context(), args[0], args[1]); err != nil {
				return a.fail(err, "Assegnazione non riuscita.")
			}
			a.success("Medico assegnato all'esame.")
			return nil
		},
	}

	unassign := &cobra.Command{
		Use:   "unassign <examID> <doctorID>",
		Short: "Rimuove l'assegnazione di un medico a un esame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.exams.UnassignDoctor(cmd.Context(), args[0], args[1]); err != nil {
				return a.fail(err, "Rimozione non riuscita.")
			}
			a.success("Assegnazione rimossa.")
			return nil
		},
	}

	cmd.AddCommand(create, update, del, assign, unassign)
	return cmd
}

func newAdminDoctorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Gestione dei medici",
	}

	var (
		firstName, lastName string
		specialization      string
		gender, email       string
		phone               string
		examIDs             []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Registra un nuovo medico",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized := validate.EnsurePhonePrefix(validate.NormalizePhoneNumber(phone))
			fieldErrors := validate.DoctorForm(validate.DoctorFormData{
				FirstName:      firstName,
				LastName:       lastName,
				Specialization: specialization,
				Email:          email,
				PhoneNumber:    normalized,
			})
			if len(fieldErrors) > 0 {
				msgs := make([]string, 0, len(fieldErrors))
				for field, msg := range fieldErrors {
					msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
				}
				return fmt.Errorf("dati non validi:\n  %s", strings.Join(msgs, "\n  "))
			}
			doctor, err := a.doctors.Create(cmd.Context(), clinic.CreateDoctorRequest{
				FirstName:      firstName,
				LastName:       lastName,
				Specialization: specialization,
				Gender:         gender,
				Email:          email,
				PhoneNumber:    normalized,
				ExamIDs:        examIDs,
			})
			if err != nil {
				return a.fail(err, "Registrazione non riuscita.")
			}
			a.success(fmt.Sprintf("Medico registrato: %s (%s)", doctor.DisplayName(), doctor.ID))
			cmd.Println(doctor.ID)
			return nil
		},
	}
	create.Flags().StringVar(&firstName, "first-name", "", "nome")
	create.Flags().StringVar(&lastName, "last-name", "", "cognome")
	create.Flags().StringVar(&specialization, "specialization", "", "specializzazione")
	create.Flags().StringVar(&gender, "gender", "", "genere (M/F)")
	create.Flags().StringVar(&email, "email", "", "email")
	create.Flags().StringVar(&phone, "phone", "", "telefono (normalizzato in +39)")
	create.Flags().StringSliceVar(&examIDs, "exam", nil, "id di un esame da assegnare (ripetibile)")

	cmd.AddCommand(create)
	return cmd
}
