package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newDoctorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Medici della clinica",
	}
	cmd.AddCommand(
		newDoctorsListCmd(a),
		newDoctorsShowCmd(a),
		newDoctorsExamsCmd(a),
		newDoctorsAppointmentsCmd(a),
		newDoctorsEligibleCmd(a),
		newDoctorsProfileCmd(a),
	)
	return cmd
}

func newDoctorsListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Elenca i medici (per la selezione dell'identità demo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = a.cfg.SelectorLimit
			}
			doctors, err := a.doctors.ListForSelector(cmd.Context(), limit)
			if err != nil {
				return a.fail(err, "Impossibile caricare i medici.")
			}
			a.renderDoctors(doctors)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "numero massimo di risultati")
	return cmd
}

func newDoctorsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Dettaglio di un medico",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doctor, err := a.doctors.Detail(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err, "Impossibile caricare il medico.")
			}
			if a.printJSON(doctor) {
				return nil
			}
			cmd.Printf("%s (%s)\n", doctor.DisplayName(), doctor.ID)
			if doctor.Specialization != "" {
				cmd.Printf("  Specializzazione: %s\n", doctor.Specialization)
			}
			if doctor.Email != "" {
				cmd.Printf("  Email:    %s\n", doctor.Email)
			}
			if doctor.PhoneNumber != "" {
				cmd.Printf("  Telefono: %s\n", doctor.PhoneNumber)
			}
			for _, e := range doctor.Exams {
				cmd.Printf("  Esame: %s (%s)\n", e.ExamName, e.ExamID)
			}
			return nil
		},
	}
}

func newDoctorsExamsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exams <id>",
		Short: "Esami effettuati da un medico",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exams, err := a.doctors.Exams(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err, "Impossibile caricare gli esami del medico.")
			}
			if a.printJSON(exams) {
				return nil
			}
			if len(exams) == 0 {
				cmd.Println("Nessun esame assegnato.")
				return nil
			}
			for _, e := range exams {
				cmd.Printf("%s\t%s\n", e.ExamID, e.ExamName)
			}
			return nil
		},
	}
}

func newDoctorsAppointmentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "appointments <id>",
		Short: "Appuntamenti assegnati a un medico",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appointments, err := a.doctors.Appointments(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err, "Impossibile caricare gli appuntamenti.")
			}
			a.renderAppointments(appointments)
			return nil
		},
	}
}

func newDoctorsEligibleCmd(a *app) *cobra.Command {
	var examID, date string
	cmd := &cobra.Command{
		Use:   "eligible",
		Short: "Medici disponibili per un esame, eventualmente a una data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var when *time.Time
			if date != "" {
				t, err := parseUserDateTime(date)
				if err != nil {
					return err
				}
				when = &t
			}
			doctors, err := a.doctors.EligibleForExam(cmd.Context(), examID, when)
			if err != nil {
				return a.fail(err, "Impossibile caricare i medici disponibili.")
			}
			if len(doctors) == 0 && !a.jsonOut {
				cmd.Println("Nessun medico disponibile per questo esame in questo orario.")
				return nil
			}
			a.renderDoctors(doctors)
			return nil
		},
	}
	cmd.Flags().StringVar(&examID, "exam", "", "id dell'esame (obbligatorio)")
	cmd.Flags().StringVar(&date, "date", "", "data e ora (gg/mm/aaaa hh:mm)")
	_ = cmd.MarkFlagRequired("exam")
	return cmd
}

// newDoctorsProfileCmd groups the self-service operations available when the
// active identity is a doctor.
func newDoctorsProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profilo del medico attivo",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Mostra il profilo corrente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doctor, err := a.doctors.CurrentProfile(cmd.Context())
			if err != nil {
				return a.fail(err, "Impossibile caricare il profilo.")
			}
			if a.printJSON(doctor) {
				return nil
			}
			cmd.Printf("%s (%s)\n", doctor.DisplayName(), doctor.ID)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Elimina il profilo corrente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("operazione distruttiva: confermare con --yes")
			}
			if err := a.doctors.DeleteProfile(cmd.Context()); err != nil {
				return a.fail(err, "Impossibile eliminare il profilo.")
			}
			if err := a.identity.ClearAll(); err != nil {
				return err
			}
			a.success("Profilo eliminato.")
			return nil
		},
	}
	del.Flags().Bool("yes", false, "conferma l'eliminazione")

	cmd.AddCommand(show, del)
	return cmd
}
