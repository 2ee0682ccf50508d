package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pegaso-health/clinicctl/internal/api"
	"github.com/pegaso-health/clinicctl/internal/identity"
	"github.com/pegaso-health/clinicctl/internal/wiretime"
	"github.com/pegaso-health/clinicctl/internal/wizard"
)

// newBookCmd runs the interactive booking flow: exam, date and time, doctor,
// confirmation. A scheduling conflict on submit keeps the flow on the doctor
// step with the selections intact so the user retries without starting over.
func newBookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "book",
		Short: "Prenota un appuntamento (flusso guidato)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role, _, ok := a.identity.Active(); !ok || role != identity.RolePatient {
				return fmt.Errorf("la prenotazione richiede un'identità paziente attiva (clinicctl login patient <id>)")
			}
			flow := &bookingFlow{
				app:    a,
				wizard: wizard.New(a.exams, a.doctors, a.appointments),
				in:     bufio.NewScanner(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
			}
			return flow.run(cmd)
		},
	}
}

type bookingFlow struct {
	app    *app
	wizard *wizard.Wizard
	in     *bufio.Scanner
	out    io.Writer
}

func (f *bookingFlow) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	for f.wizard.Step() != wizard.StepConfirmed {
		var err error
		switch f.wizard.Step() {
		case wizard.StepSelectExam:
			err = f.stepExam(ctx)
		case wizard.StepSelectDateTime:
			err = f.stepDateTime()
		case wizard.StepSelectDoctor:
			err = f.stepDoctor(ctx)
		}
		if err != nil {
			return err
		}
	}

	created := f.wizard.Created()
	f.app.success("Appuntamento prenotato per il " + created.DisplayDate())
	f.app.renderAppointmentDetail(created, nil)
	return nil
}

func (f *bookingFlow) stepExam(ctx context.Context) error {
	exams, err := f.wizard.LoadExams(ctx)
	if err != nil {
		return f.app.fail(err, "Impossibile caricare gli esami.")
	}
	if len(exams) == 0 {
		return fmt.Errorf("nessun esame prenotabile al momento")
	}

	fmt.Fprintln(f.out, "Passo 1/4 — Scegli l'esame:")
	for i, e := range exams {
		fmt.Fprintf(f.out, "  %d) %s (%d min)\n", i+1, e.Name, e.DurationMinutes)
	}
	for {
		choice, err := f.prompt("Esame [numero]: ")
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(exams) {
			fmt.Fprintln(f.out, "Scelta non valida.")
			continue
		}
		return f.wizard.SelectExam(exams[n-1])
	}
}

func (f *bookingFlow) stepDateTime() error {
	min := f.wizard.MinSelectable(time.Local)
	fmt.Fprintf(f.out, "Passo 2/4 — Data e ora (dalle %s):\n", wiretime.FormatDisplay(min))
	for {
		raw, err := f.prompt("Data [gg/mm/aaaa hh:mm, 'b' per tornare indietro]: ")
		if err != nil {
			return err
		}
		if raw == "b" {
			f.wizard.Back()
			return nil
		}
		t, parseErr := parseUserDateTime(raw)
		if parseErr != nil {
			fmt.Fprintln(f.out, parseErr.Error())
			continue
		}
		if chooseErr := f.wizard.ChooseDateTime(t); chooseErr != nil {
			fmt.Fprintln(f.out, chooseErr.Error())
			continue
		}
		return nil
	}
}

func (f *bookingFlow) stepDoctor(ctx context.Context) error {
	doctors, err := f.wizard.EligibleDoctors(ctx)
	if err != nil {
		return f.app.fail(err, "Impossibile caricare i medici disponibili.")
	}
	if len(doctors) == 0 {
		fmt.Fprintln(f.out, "Nessun medico disponibile in questo orario: scegli un'altra data.")
		f.wizard.Back()
		return nil
	}

	fmt.Fprintln(f.out, "Passo 3/4 — Scegli il medico:")
	for i, d := range doctors {
		fmt.Fprintf(f.out, "  %d) %s\n", i+1, d.DisplayName())
	}
	for {
		choice, err := f.prompt("Medico [numero, 'b' per tornare indietro]: ")
		if err != nil {
			return err
		}
		if choice == "b" {
			f.wizard.Back()
			return nil
		}
		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(doctors) {
			fmt.Fprintln(f.out, "Scelta non valida.")
			continue
		}
		if err := f.wizard.SelectDoctor(doctors[n-1]); err != nil {
			return err
		}
		return f.confirm(ctx)
	}
}

func (f *bookingFlow) confirm(ctx context.Context) error {
	reason, err := f.prompt("Motivo della visita (opzionale): ")
	if err != nil {
		return err
	}
	f.wizard.SetReason(reason)
	notes, err := f.prompt("Controindicazioni (opzionale): ")
	if err != nil {
		return err
	}
	f.wizard.SetContraindications(notes)

	fmt.Fprintln(f.out, "Passo 4/4 — Riepilogo:")
	fmt.Fprintf(f.out, "  Esame:  %s\n", f.wizard.Exam().Name)
	fmt.Fprintf(f.out, "  Data:   %s\n", wiretime.FormatDisplay(f.wizard.Date().Local()))
	fmt.Fprintf(f.out, "  Medico: %s\n", f.wizard.Doctor().DisplayName())
	answer, err := f.prompt("Confermi la prenotazione? [s/n]: ")
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "s") {
		f.wizard.Back()
		return nil
	}

	if _, err := f.wizard.Submit(ctx); err != nil {
		if !api.IsConflict(err) {
			return f.app.fail(err, "Prenotazione non riuscita.")
		}
		// Booking conflicts keep their explicit message; the flow stays on
		// the doctor step so the user can pick another doctor or go back.
		fmt.Fprintln(f.out, api.UserMessage(err, "Prenotazione non riuscita.", true))
	}
	return nil
}

func (f *bookingFlow) prompt(label string) (string, error) {
	fmt.Fprint(f.out, label)
	if !f.in.Scan() {
		if err := f.in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("input interrotto")
	}
	return strings.TrimSpace(f.in.Text()), nil
}
