// Package wizard sequences the appointment booking flow: exam, date/time,
// doctor and details, confirmation. The wizard orchestrates client-side step
// gating only; eligibility and conflict detection stay server-side.
package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/wiretime"
)

// Step is the wizard's current position.
type Step int

const (
	StepSelectExam Step = iota + 1
	StepSelectDateTime
	StepSelectDoctor
	StepConfirmed
)

// String names the step for logs and prompts.
func (s Step) String() string {
	switch s {
	case StepSelectExam:
		return "select-exam"
	case StepSelectDateTime:
		return "select-datetime"
	case StepSelectDoctor:
		return "select-doctor"
	case StepConfirmed:
		return "confirmed"
	}
	return "unknown"
}

// Localized gate messages for client-side rejections.
var (
	ErrNoExam     = errors.New("Seleziona un esame per continuare.")
	ErrNoDate     = errors.New("Seleziona data e ora per continuare.")
	ErrPastDate   = errors.New("La data non può essere nel passato")
	ErrNoDoctor   = errors.New("Seleziona un medico per continuare.")
	ErrWrongStep  = errors.New("operazione non disponibile in questo passaggio")
	ErrTerminated = errors.New("la prenotazione è già stata completata")
)

// ExamCatalog lists bookable exams.
type ExamCatalog interface {
	List(ctx context.Context, activeOnly bool) ([]clinic.Exam, error)
}

// DoctorDirectory resolves the doctors eligible for an exam at an instant.
type DoctorDirectory interface {
	EligibleForExam(ctx context.Context, examID string, when *time.Time) ([]clinic.Doctor, error)
}

// AppointmentBooker submits the booking.
type AppointmentBooker interface {
	Create(ctx context.Context, req clinic.CreateAppointmentRequest) (*clinic.Appointment, error)
}

// Wizard is one booking flow instance. Confirmed is terminal: book again with
// a fresh instance.
type Wizard struct {
	exams        ExamCatalog
	doctors      DoctorDirectory
	appointments AppointmentBooker
	now          func() time.Time

	step              Step
	exam              *clinic.Exam
	date              time.Time
	eligible          []clinic.Doctor
	doctor            *clinic.Doctor
	reason            string
	contraindications string
	created           *clinic.Appointment
}

// Option configures a wizard.
type Option func(*Wizard)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// New starts a booking flow at the exam selection step.
func New(exams ExamCatalog, doctors DoctorDirectory, appointments AppointmentBooker, opts ...Option) *Wizard {
	w := &Wizard{
		exams:        exams,
		doctors:      doctors,
		appointments: appointments,
		now:          time.Now,
		step:         StepSelectExam,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step returns the wizard's current step.
func (w *Wizard) Step() Step { return w.step }

// Exam returns the chosen exam, if any.
func (w *Wizard) Exam() *clinic.Exam { return w.exam }

// Date returns the chosen instant; zero when unset.
func (w *Wizard) Date() time.Time { return w.date }

// Doctor returns the chosen doctor, if any.
func (w *Wizard) Doctor() *clinic.Doctor { return w.doctor }

// Created returns the booked appointment once the flow confirmed.
func (w *Wizard) Created() *clinic.Appointment { return w.created }

// SetReason records the optional visit reason.
func (w *Wizard) SetReason(reason string) { w.reason = reason }

// SetContraindications records optional contraindication notes.
func (w *Wizard) SetContraindications(notes string) { w.contraindications = notes }

// LoadExams fetches the bookable catalog (active exams only).
func (w *Wizard) LoadExams(ctx context.Context) ([]clinic.Exam, error) {
	return w.exams.List(ctx, true)
}

// SelectExam records the exam and advances to date selection. Re-selecting
// the same exam is idempotent and keeps the chosen date and doctor; switching
// to a different exam invalidates the doctor choice, since eligibility is
// per-exam.
func (w *Wizard) SelectExam(exam clinic.Exam) error {
	if w.step == StepConfirmed {
		return ErrTerminated
	}
	if w.exam == nil || w.exam.ID != exam.ID {
		w.doctor = nil
		w.eligible = nil
	}
	w.exam = &exam
	w.step = StepSelectDateTime
	return nil
}

// MinSelectable returns the earliest instant the date input may offer,
// "now" in the caller's location.
func (w *Wizard) MinSelectable(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return w.now().In(loc)
}

// ChooseDateTime validates the instant and advances to doctor selection. The
// instant must be strictly after now at submit time.
func (w *Wizard) ChooseDateTime(t time.Time) error {
	if w.step == StepConfirmed {
		return ErrTerminated
	}
	if w.exam == nil {
		return ErrNoExam
	}
	if t.IsZero() {
		return ErrNoDate
	}
	if !t.After(w.now()) {
		return ErrPastDate
	}
	w.date = t
	w.step = StepSelectDoctor
	return nil
}

// EligibleDoctors fetches the doctors bookable for the chosen exam at the
// chosen instant. An empty result is a valid, displayable state, not an
// error.
func (w *Wizard) EligibleDoctors(ctx context.Context) ([]clinic.Doctor, error) {
	if w.step != StepSelectDoctor {
		return nil, ErrWrongStep
	}
	when := w.date
	doctors, err := w.doctors.EligibleForExam(ctx, w.exam.ID, &when)
	if err != nil {
		return nil, err
	}
	w.eligible = doctors
	return doctors, nil
}

// SelectDoctor records the doctor choice.
func (w *Wizard) SelectDoctor(doctor clinic.Doctor) error {
	if w.step != StepSelectDoctor {
		return ErrWrongStep
	}
	w.doctor = &doctor
	return nil
}

// Back navigates one step backward. Field values of the step being left are
// kept and re-displayed if the user returns forward.
func (w *Wizard) Back() {
	switch w.step {
	case StepSelectDateTime:
		w.step = StepSelectExam
	case StepSelectDoctor:
		w.step = StepSelectDateTime
	}
}

// Submit books the appointment. Client-side it only requires a chosen doctor;
// any backend rejection (scheduling conflicts included) bubbles up unchanged
// and leaves the wizard on the current step with the form state intact.
func (w *Wizard) Submit(ctx context.Context) (*clinic.Appointment, error) {
	if w.step == StepConfirmed {
		return nil, ErrTerminated
	}
	if w.step != StepSelectDoctor {
		return nil, ErrWrongStep
	}
	if w.doctor == nil {
		return nil, ErrNoDoctor
	}

	appointment, err := w.appointments.Create(ctx, clinic.CreateAppointmentRequest{
		DoctorID:          w.doctor.ID,
		ExamID:            w.exam.ID,
		AppointmentDate:   wiretime.Format(w.date),
		Reason:            w.reason,
		Contraindications: w.contraindications,
	})
	if err != nil {
		return nil, err
	}
	w.created = appointment
	w.step = StepConfirmed
	return appointment, nil
}
