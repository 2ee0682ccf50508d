package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/wiretime"
)

// printJSON emits v on stdout when --json is set and reports whether it did.
func (a *app) printJSON(v any) bool {
	if !a.jsonOut {
		return false
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		a.logger.Error("encode output", "error", err)
	}
	return true
}

func (a *app) renderPatients(patients []clinic.Patient) {
	if a.printJSON(patients) {
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOME\tNASCITA\tEMAIL\tTELEFONO")
	for _, p := range patients {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.FullName(), p.DateOfBirth, p.Email, p.PhoneNumber)
	}
	w.Flush()
}

func (a *app) renderDoctors(doctors []clinic.Doctor) {
	if a.printJSON(doctors) {
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMEDICO\tSPECIALIZZAZIONE\tESAMI")
	for _, d := range doctors {
		names := make([]string, 0, len(d.Exams))
		for _, e := range d.Exams {
			names = append(names, e.ExamName)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.DisplayName(), d.Specialization, strings.Join(names, ", "))
	}
	w.Flush()
}

func (a *app) renderExams(exams []clinic.Exam) {
	if a.printJSON(exams) {
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tESAME\tDURATA\tATTIVO")
	for _, e := range exams {
		active := "sì"
		if !e.IsActive {
			active = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%d min\t%s\n", e.ID, e.Name, e.DurationMinutes, active)
	}
	w.Flush()
}

func (a *app) renderAppointments(appointments []clinic.Appointment) {
	if a.printJSON(appointments) {
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATA\tESAME\tPAZIENTE\tMEDICO\tSTATO")
	for _, ap := range appointments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s %s\t%s\n",
			ap.ID, ap.DisplayDate(), ap.ExamName,
			ap.PatientFirstName, ap.PatientLastName,
			ap.DoctorFirstName, ap.DoctorLastName,
			ap.Status.Label())
	}
	w.Flush()
}

func (a *app) renderAppointmentDetail(ap *clinic.Appointment, actions []clinic.Action) {
	if a.printJSON(ap) {
		return
	}
	fmt.Fprintf(a.out, "Appuntamento %s\n", ap.ID)
	fmt.Fprintf(a.out, "  Data:     %s\n", ap.DisplayDate())
	fmt.Fprintf(a.out, "  Esame:    %s (%d min)\n", ap.ExamName, ap.DurationMinutes)
	fmt.Fprintf(a.out, "  Paziente: %s %s\n", ap.PatientFirstName, ap.PatientLastName)
	fmt.Fprintf(a.out, "  Medico:   %s %s\n", ap.DoctorFirstName, ap.DoctorLastName)
	fmt.Fprintf(a.out, "  Stato:    %s\n", ap.Status.Label())
	if ap.Reason != "" {
		fmt.Fprintf(a.out, "  Motivo:   %s\n", ap.Reason)
	}
	if ap.Contraindications != "" {
		fmt.Fprintf(a.out, "  Controindicazioni: %s\n", ap.Contraindications)
	}
	if len(actions) > 0 {
		labels := make([]string, 0, len(actions))
		for _, action := range actions {
			labels = append(labels, fmt.Sprintf("%s (%s)", action.Label(), action))
		}
		fmt.Fprintf(a.out, "  Azioni disponibili: %s\n", strings.Join(labels, ", "))
	}
}

// parseUserDateTime reads the dd/mm/yyyy hh:mm form used across the UI,
// interpreted in the local timezone.
func parseUserDateTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation("02/01/2006 15:04", strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("data non valida %q (formato atteso: gg/mm/aaaa hh:mm)", value)
	}
	return t, nil
}

// wireDateArg converts an optional user-supplied instant to wire form.
func wireDateArg(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	t, err := parseUserDateTime(value)
	if err != nil {
		return "", err
	}
	return wiretime.Format(t), nil
}
