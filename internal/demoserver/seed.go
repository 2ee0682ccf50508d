package demoserver

import (
	"time"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/wiretime"
)

// Seed loads a small demo dataset: a handful of patients and doctors, the
// exam catalog with assignments, and a few appointments in mixed lifecycle
// states relative to now.
func Seed(store *Store, now time.Time) {
	patients := []clinic.Patient{
		{ID: "p-001", FirstName: "Mario", LastName: "Rossi", DateOfBirth: "1985-03-12", Gender: "M", Email: "mario.rossi@example.com", PhoneNumber: "+393331112233"},
		{ID: "p-002", FirstName: "Giulia", LastName: "Conti", DateOfBirth: "1992-07-04", Gender: "F", Email: "giulia.conti@example.com", PhoneNumber: "+393334445566"},
		{ID: "p-003", FirstName: "Luca", LastName: "Ferrari", DateOfBirth: "1978-11-21", Gender: "M", Email: "luca.ferrari@example.com", PhoneNumber: "+393337778899"},
	}
	for _, p := range patients {
		store.AddPatient(p)
	}

	exams := []clinic.Exam{
		{ID: "e-001", Name: "Visita cardiologica", Description: "Visita specialistica con ECG", DurationMinutes: 30, IsActive: true},
		{ID: "e-002", Name: "Ecografia addominale", Description: "Ecografia dell'addome completo", DurationMinutes: 45, IsActive: true},
		{ID: "e-003", Name: "Visita dermatologica", Description: "Controllo nei e lesioni cutanee", DurationMinutes: 20, IsActive: true},
		{ID: "e-004", Name: "Radiografia torace", Description: "RX torace in due proiezioni", DurationMinutes: 15, IsActive: false},
	}
	for _, e := range exams {
		store.AddExam(e)
	}

	doctors := []clinic.Doctor{
		{ID: "d-001", FirstName: "Laura", LastName: "Bianchi", Specialization: "Cardiologia", Gender: "F", Email: "l.bianchi@clinica.example.com", PhoneNumber: "+390612345678"},
		{ID: "d-002", FirstName: "Andrea", LastName: "Greco", Specialization: "Radiologia", Gender: "M", Email: "a.greco@clinica.example.com", PhoneNumber: "+390687654321"},
		{ID: "d-003", FirstName: "Elena", LastName: "Moretti", Specialization: "Dermatologia", Gender: "F", Email: "e.moretti@clinica.example.com", PhoneNumber: "+390611223344"},
	}
	for _, d := range doctors {
		store.AddDoctor(d)
	}

	assignments := map[string][]string{
		"d-001": {"e-001"},
		"d-002": {"e-002", "e-004"},
		"d-003": {"e-003"},
	}
	for doctorID, examIDs := range assignments {
		for _, examID := range examIDs {
			_ = store.AssignDoctor(examID, doctorID)
		}
	}

	// One per lifecycle state, anchored around now so lists look alive.
	appointments := []struct {
		id, patientID, doctorID, examID string
		offset                          time.Duration
		status                          clinic.Status
		reason                          string
	}{
		{"a-001", "p-001", "d-001", "e-001", 48 * time.Hour, clinic.StatusPending, "Controllo annuale"},
		{"a-002", "p-002", "d-003", "e-003", 72 * time.Hour, clinic.StatusConfirmed, "Controllo neo"},
		{"a-003", "p-001", "d-002", "e-002", -96 * time.Hour, clinic.StatusCompleted, ""},
		{"a-004", "p-003", "d-001", "e-001", 24 * time.Hour, clinic.StatusCancelled, ""},
	}
	for _, a := range appointments {
		patient, _ := store.PatientByID(a.patientID)
		doctor, _ := store.DoctorByID(a.doctorID)
		exam, _ := store.ExamByID(a.examID)
		store.AddAppointment(clinic.Appointment{
			ID:               a.id,
			PatientID:        patient.ID,
			PatientFirstName: patient.FirstName,
			PatientLastName:  patient.LastName,
			PatientEmail:     patient.Email,
			DoctorID:         doctor.ID,
			DoctorFirstName:  doctor.FirstName,
			DoctorLastName:   doctor.LastName,
			DoctorGender:     doctor.Gender,
			ExamID:           exam.ID,
			ExamName:         exam.Name,
			AppointmentDate:  wiretime.Format(now.Add(a.offset)),
			DurationMinutes:  exam.DurationMinutes,
			Status:           a.status,
			Reason:           a.reason,
		})
	}
}
