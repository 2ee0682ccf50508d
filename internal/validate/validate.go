// Package validate holds the synchronous form validators shared by the
// patient, doctor and exam flows. They exist for early feedback only: the
// backend re-validates everything, and values it rejects must still surface
// even when these checks passed.
//
// Every validator returns a user-facing message, or the empty string when the
// value is acceptable.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Letters (accented included), spaces, apostrophes and hyphens. Only the
// plain space character counts as whitespace; tabs and newlines are rejected.
var nameRe = regexp.MustCompile(`^[A-Za-zÀ-ÿ '-]+$`)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var dobMin = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Name validates a firstName/lastName field.
func Name(value string, required bool) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return "Il nome è obbligatorio"
		}
		return ""
	}
	if len([]rune(trimmed)) < 2 {
		return "Deve contenere almeno 2 caratteri"
	}
	if len([]rune(trimmed)) > 100 {
		return "Non può superare i 100 caratteri"
	}
	if !nameRe.MatchString(trimmed) {
		return "Può contenere solo lettere, spazi, apostrofi e trattini"
	}
	return ""
}

// Email validates an email field.
func Email(value string, required bool) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return "L'email è obbligatoria"
		}
		return ""
	}
	if !emailRe.MatchString(trimmed) {
		return "Formato email non valido (es. nome@dominio.com)"
	}
	if len(trimmed) > 255 {
		return "L'email non può superare i 255 caratteri"
	}
	return ""
}

// DateOfBirth validates a yyyy-MM-dd date of birth.
func DateOfBirth(value string, required bool) string {
	if strings.TrimSpace(value) == "" {
		if required {
			return "La data di nascita è obbligatoria"
		}
		return ""
	}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.UTC)
	if err != nil {
		return "Formato data non valido (aaaa-mm-gg)"
	}
	if date.Before(dobMin) {
		return "La data di nascita non può essere prima del 1900"
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return "La data di nascita non può essere nel futuro"
	}
	return ""
}

// Specialization validates the optional doctor specialization.
func Specialization(value string, required bool) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return "La specializzazione è obbligatoria"
		}
		return ""
	}
	if len([]rune(trimmed)) > 150 {
		return "La specializzazione non può superare i 150 caratteri"
	}
	return ""
}

// ExamName validates an exam name.
func ExamName(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "Il nome dell'esame è obbligatorio"
	}
	if len([]rune(trimmed)) < 3 {
		return "Deve contenere almeno 3 caratteri"
	}
	if len([]rune(trimmed)) > 100 {
		return "Non può superare i 100 caratteri"
	}
	return ""
}

// ExamDuration validates an exam duration in minutes.
func ExamDuration(minutes int) string {
	if minutes <= 0 {
		return "La durata deve essere un numero positivo"
	}
	if minutes > 480 {
		return "La durata non può superare gli 480 minuti (8 ore)"
	}
	return ""
}

// Options parametrizes Field.
type Options struct {
	Required bool
}

// Field dispatches to the validator for a named form field.
func Field(fieldName, value string, opts Options) string {
	switch fieldName {
	case "firstName", "lastName":
		return Name(value, opts.Required)
	case "email":
		return Email(value, opts.Required)
	case "dateOfBirth":
		return DateOfBirth(value, opts.Required)
	case "specialization":
		return Specialization(value, opts.Required)
	case "phoneNumber":
		return PhoneNumber(value)
	case "examName":
		return ExamName(value)
	case "durationMinutes":
		minutes, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return "La durata deve essere un numero positivo"
		}
		return ExamDuration(minutes)
	}
	return ""
}

// PatientFormData carries the patient creation/update form fields.
type PatientFormData struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth string
	PhoneNumber string
}

// PatientForm runs the full validator set and returns messages for the
// invalid fields only. Names are required, everything else is optional.
func PatientForm(form PatientFormData) map[string]string {
	errors := make(map[string]string)
	if msg := Name(form.FirstName, true); msg != "" {
		errors["firstName"] = msg
	}
	if msg := Name(form.LastName, true); msg != "" {
		errors["lastName"] = msg
	}
	if form.Email != "" {
		if msg := Email(form.Email, false); msg != "" {
			errors["email"] = msg
		}
	}
	if form.DateOfBirth != "" {
		if msg := DateOfBirth(form.DateOfBirth, false); msg != "" {
			errors["dateOfBirth"] = msg
		}
	}
	if form.PhoneNumber != "" {
		if msg := PhoneNumber(form.PhoneNumber); msg != "" {
			errors["phoneNumber"] = msg
		}
	}
	return errors
}

// DoctorFormData carries the doctor creation/update form fields.
type DoctorFormData struct {
	FirstName      string
	LastName       string
	Specialization string
	Email          string
	PhoneNumber    string
}

// DoctorForm mirrors PatientForm for the doctor fields.
func DoctorForm(form DoctorFormData) map[string]string {
	errors := make(map[string]string)
	if msg := Name(form.FirstName, true); msg != "" {
		errors["firstName"] = msg
	}
	if msg := Name(form.LastName, true); msg != "" {
		errors["lastName"] = msg
	}
	if form.Specialization != "" {
		if msg := Specialization(form.Specialization, false); msg != "" {
			errors["specialization"] = msg
		}
	}
	if form.Email != "" {
		if msg := Email(form.Email, false); msg != "" {
			errors["email"] = msg
		}
	}
	if form.PhoneNumber != "" {
		if msg := PhoneNumber(form.PhoneNumber); msg != "" {
			errors["phoneNumber"] = msg
		}
	}
	return errors
}
