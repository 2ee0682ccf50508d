package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pegaso-health/clinicctl/internal/identity"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <patient|doctor|admin> <id>",
		Short: "Seleziona l'identità demo attiva",
		Long: `Seleziona l'identità demo attiva. L'id viene inviato come header a ogni
richiesta; al massimo un ruolo è attivo alla volta e il login sostituisce
quello precedente.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := identity.ParseRole(args[0])
			if err != nil {
				return err
			}
			id := args[1]

			// Verify the id exists before storing it so a typo doesn't
			// leave every later call failing. Admin ids are free-form.
			ctx := cmd.Context()
			switch role {
			case identity.RolePatient:
				if _, err := a.patients.Detail(ctx, id); err != nil {
					return a.fail(err, "Paziente non trovato.")
				}
			case identity.RoleDoctor:
				if _, err := a.doctors.Detail(ctx, id); err != nil {
					return a.fail(err, "Medico non trovato.")
				}
			}

			if err := a.identity.SetActive(role, id); err != nil {
				return err
			}
			a.success(fmt.Sprintf("Identità attiva: %s %s", role, id))
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Rimuove l'identità demo attiva",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.identity.ClearAll(); err != nil {
				return err
			}
			a.success("Identità rimossa.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Mostra l'identità demo attiva",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printSnapshot := func(role identity.Role, id string, ok bool) {
				if !ok {
					fmt.Fprintln(a.out, "Nessuna identità attiva.")
					return
				}
				fmt.Fprintf(a.out, "%s\t%s\n", role, id)
			}
			printSnapshot(a.identity.Active())

			if !watch {
				return nil
			}

			// Follow identity changes made by other processes until
			// interrupted.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			unsubscribe := a.identity.Subscribe(func(snap identity.Snapshot) {
				printSnapshot(snap.Role, snap.ID, snap.Role != "")
			})
			defer unsubscribe()
			a.identity.Watch(ctx, a.cfg.IdentityPollInterval)
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "resta in ascolto dei cambi di identità")
	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Verifica che il backend risponda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var status struct {
				Status string `json:"status"`
			}
			if err := a.client.Get(cmd.Context(), "/health", &status); err != nil {
				return a.fail(err, "Il backend non risponde.")
			}
			fmt.Fprintf(a.out, "Backend %s: %s\n", a.client.BaseURL(), status.Status)
			return nil
		},
	}
}
