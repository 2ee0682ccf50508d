package main

import (
	"github.com/spf13/cobra"

	"github.com/pegaso-health/clinicctl/internal/clinic"
)

func newAppointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Appuntamenti visibili all'identità attiva",
	}
	cmd.AddCommand(
		newAppointmentsListCmd(a),
		newAppointmentsShowCmd(a),
		newTransitionCmd(a, clinic.ActionConfirm, "confirm", "Conferma un appuntamento in attesa"),
		newTransitionCmd(a, clinic.ActionComplete, "complete", "Segna un appuntamento come completato"),
		newTransitionCmd(a, clinic.ActionRevert, "revert", "Riporta un appuntamento in attesa"),
		newAppointmentsCancelCmd(a),
	)
	return cmd
}

func newAppointmentsListCmd(a *app) *cobra.Command {
	var status, from, to string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Elenca gli appuntamenti",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := clinic.AppointmentFilters{Limit: limit, Offset: offset}
			if status != "" {
				parsed, err := clinic.ParseStatus(status)
				if err != nil {
					return err
				}
				filters.Status = parsed
			}
			var err error
			if filters.From, err = wireDateArg(from); err != nil {
				return err
			}
			if filters.To, err = wireDateArg(to); err != nil {
				return err
			}
			appointments, err := a.appointments.List(cmd.Context(), filters)
			if err != nil {
				return a.fail(err, "Impossibile caricare gli appuntamenti.")
			}
			a.renderAppointments(appointments)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filtra per stato (pending/confirmed/completed/cancelled)")
	cmd.Flags().StringVar(&from, "from", "", "solo appuntamenti da questa data (gg/mm/aaaa hh:mm)")
	cmd.Flags().StringVar(&to, "to", "", "solo appuntamenti fino a questa data (gg/mm/aaaa hh:mm)")
	cmd.Flags().IntVar(&limit, "limit", 0, "numero massimo di risultati")
	cmd.Flags().IntVar(&offset, "offset", 0, "salta i primi N risultati")
	return cmd
}

func newAppointmentsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Dettaglio di un appuntamento con le azioni disponibili",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appointment, err := a.appointments.Detail(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err, "Impossibile caricare l'appuntamento.")
			}
			role, _, _ := a.identity.Active()
			a.renderAppointmentDetail(appointment, clinic.OfferedActions(appointment.Status, role))
			return nil
		},
	}
}

func newTransitionCmd(a *app, action clinic.Action, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appointment, err := a.appointments.Apply(cmd.Context(), args[0], action)
			if err != nil {
				return a.fail(err, "Operazione non riuscita.")
			}
			a.success("Appuntamento ora in stato: " + appointment.Status.Label())
			a.renderAppointmentDetail(appointment, nil)
			return nil
		},
	}
}

func newAppointmentsCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Annulla un appuntamento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.appointments.Cancel(cmd.Context(), args[0]); err != nil {
				return a.fail(err, "Annullamento non riuscito.")
			}
			a.success("Appuntamento annullato.")
			return nil
		},
	}
}
