// Package clinic holds the typed resource services for the appointments
// backend: patients, doctors, exams and appointments. Services are pure
// request/response mapping; business rules (availability, conflicts,
// permissions) live server-side, and adapter errors pass through unchanged.
package clinic

import (
	"fmt"
	"time"

	"github.com/pegaso-health/clinicctl/internal/wiretime"
)

// Patient as returned by the backend.
type Patient struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// FullName renders "First Last".
func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// CreatePatientRequest creates or updates a patient profile.
type CreatePatientRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// ExamInfo is the doctor-side view of an exam assignment.
type ExamInfo struct {
	ExamID      string `json:"examId"`
	ExamName    string `json:"examName"`
	Description string `json:"description,omitempty"`
}

// Doctor as returned by the backend. The canonical shape is the
// exam-association model; Specialization survives as free display text.
type Doctor struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Specialization string     `json:"specialization,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	Email          string     `json:"email,omitempty"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	Exams          []ExamInfo `json:"exams,omitempty"`
}

// Title returns the professional title for the doctor's gender.
func (d Doctor) Title() string {
	switch d.Gender {
	case "F":
		return "Dott.ssa"
	case "M":
		return "Dott."
	}
	return ""
}

// DisplayName renders the doctor with title, e.g. "Dott.ssa Laura Bianchi".
func (d Doctor) DisplayName() string {
	if title := d.Title(); title != "" {
		return fmt.Sprintf("%s %s %s", title, d.FirstName, d.LastName)
	}
	return d.FirstName + " " + d.LastName
}

// CreateDoctorRequest creates or updates a doctor profile. ExamIDs drives the
// admin-managed doctor-exam assignment at creation time.
type CreateDoctorRequest struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Specialization string   `json:"specialization,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Email          string   `json:"email,omitempty"`
	PhoneNumber    string   `json:"phoneNumber,omitempty"`
	ExamIDs        []string `json:"examIds,omitempty"`
}

// Exam as returned by the backend.
type Exam struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	IsActive        bool   `json:"isActive"`
}

// CreateExamRequest creates an exam (admin only).
type CreateExamRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
}

// UpdateExamRequest updates an exam (admin only). Nil fields stay untouched.
type UpdateExamRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// Appointment as returned by the backend. The denormalized patient/doctor/
// exam fields let list views render without extra lookups.
type Appointment struct {
	ID               string `json:"id"`
	PatientID        string `json:"patientId"`
	PatientFirstName string `json:"patientFirstName,omitempty"`
	PatientLastName  string `json:"patientLastName,omitempty"`
	PatientEmail     string `json:"patientEmail,omitempty"`
	DoctorID         string `json:"doctorId"`
	DoctorFirstName  string `json:"doctorFirstName,omitempty"`
	DoctorLastName   string `json:"doctorLastName,omitempty"`
	DoctorGender     string `json:"doctorGender,omitempty"`
	ExamID           string `json:"examId"`
	ExamName         string `json:"examName,omitempty"`
	// AppointmentDate is the naive-UTC wire timestamp; use Date to interpret it.
	AppointmentDate   string `json:"appointmentDate"`
	DurationMinutes   int    `json:"durationMinutes"`
	Status            Status `json:"status"`
	Reason            string `json:"reason,omitempty"`
	Contraindications string `json:"contraindications,omitempty"`
}

// Date interprets the wire timestamp as a UTC instant.
func (a Appointment) Date() (time.Time, error) {
	return wiretime.Parse(a.AppointmentDate)
}

// DisplayDate renders the appointment instant for users.
func (a Appointment) DisplayDate() string {
	return wiretime.DisplayWire(a.AppointmentDate)
}

// CreateAppointmentRequest books an appointment; the patient comes from the
// identity header, the duration from the exam.
type CreateAppointmentRequest struct {
	DoctorID          string `json:"doctorId"`
	ExamID            string `json:"examId"`
	AppointmentDate   string `json:"appointmentDate"`
	Reason            string `json:"reason,omitempty"`
	Contraindications string `json:"contraindications,omitempty"`
}

// UpdateAppointmentRequest mutates an appointment. Status transitions are a
// single PATCH carrying the new status.
type UpdateAppointmentRequest struct {
	AppointmentDate   *string `json:"appointmentDate,omitempty"`
	Reason            *string `json:"reason,omitempty"`
	Contraindications *string `json:"contraindications,omitempty"`
	Status            *Status `json:"status,omitempty"`
}
