package main

import (
	"github.com/spf13/cobra"
)

func newExamsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exams",
		Short: "Catalogo degli esami",
	}
	cmd.AddCommand(newExamsListCmd(a), newExamsShowCmd(a))
	return cmd
}

func newExamsListCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Elenca gli esami prenotabili",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exams, err := a.exams.List(cmd.Context(), !all)
			if err != nil {
				return a.fail(err, "Impossibile caricare gli esami.")
			}
			a.renderExams(exams)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "includi gli esami non attivi")
	return cmd
}

func newExamsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Dettaglio di un esame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exam, err := a.exams.Detail(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err, "Impossibile caricare l'esame.")
			}
			if a.printJSON(exam) {
				return nil
			}
			cmd.Printf("Esame %s\n", exam.ID)
			cmd.Printf("  Nome:        %s\n", exam.Name)
			if exam.Description != "" {
				cmd.Printf("  Descrizione: %s\n", exam.Description)
			}
			cmd.Printf("  Durata:      %d min\n", exam.DurationMinutes)
			cmd.Printf("  Attivo:      %t\n", exam.IsActive)
			return nil
		},
	}
}
