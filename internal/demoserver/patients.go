package demoserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/identity"
	"github.com/pegaso-health/clinicctl/internal/validate"
)

// handlePatientsRoot serves both the selector listing (no identity header)
// and the self profile (X-Demo-Patient-Id present) on the same path.
func (s *Server) handlePatientsRoot(w http.ResponseWriter, r *http.Request) {
	role, id, ok := identityFrom(r)
	if ok && role == identity.RolePatient {
		patient, found := s.store.PatientByID(id)
		if !found {
			s.writeError(w, http.StatusNotFound, codeNotFound, "Paziente non trovato.", "")
			return
		}
		s.writeJSON(w, http.StatusOK, patient)
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Patients())
}

func (s *Server) handleCreatePatient(w http.ResponseWriter, r *http.Request) {
	var req clinic.CreatePatientRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.PhoneNumber = validate.NormalizePhoneNumber(req.PhoneNumber)
	if !s.validPatient(w, req) {
		return
	}
	patient := s.store.AddPatient(clinic.Patient{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	s.logger.Info("patient created", "patient_id", patient.ID)
	s.writeJSON(w, http.StatusCreated, patient)
}

func (s *Server) handleUpdatePatientProfile(w http.ResponseWriter, r *http.Request) {
	patient, ok := s.currentPatient(w, r)
	if !ok {
		return
	}
	var req clinic.CreatePatientRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.PhoneNumber = validate.NormalizePhoneNumber(req.PhoneNumber)
	if !s.validPatient(w, req) {
		return
	}
	patient.FirstName = req.FirstName
	patient.LastName = req.LastName
	patient.DateOfBirth = req.DateOfBirth
	patient.Gender = req.Gender
	patient.Email = req.Email
	patient.PhoneNumber = req.PhoneNumber
	if err := s.store.UpdatePatient(patient); err != nil {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Paziente non trovato.", "")
		return
	}
	s.writeJSON(w, http.StatusOK, patient)
}

func (s *Server) handleDeletePatientProfile(w http.ResponseWriter, r *http.Request) {
	patient, ok := s.currentPatient(w, r)
	if !ok {
		return
	}
	if err := s.store.DeletePatient(patient.ID); err != nil {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Paziente non trovato.", "")
		return
	}
	s.logger.Info("patient deleted", "patient_id", patient.ID)
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	patient, found := s.store.PatientByID(chi.URLParam(r, "id"))
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Paziente non trovato.", "")
		return
	}
	s.writeJSON(w, http.StatusOK, patient)
}

func (s *Server) handlePatientAppointments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, found := s.store.PatientByID(id); !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Paziente non trovato.", "")
		return
	}
	out := []clinic.Appointment{}
	for _, a := range s.store.Appointments() {
		if a.PatientID == id {
			out = append(out, a)
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// currentPatient resolves the self-profile subject from the demo header.
func (s *Server) currentPatient(w http.ResponseWriter, r *http.Request) (clinic.Patient, bool) {
	role, id, ok := identityFrom(r)
	if !ok || role != identity.RolePatient {
		s.writeError(w, http.StatusUnauthorized, codeUnauthorized, "Identità paziente richiesta.", "")
		return clinic.Patient{}, false
	}
	patient, found := s.store.PatientByID(id)
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Paziente non trovato.", "")
		return clinic.Patient{}, false
	}
	return patient, true
}

func (s *Server) validPatient(w http.ResponseWriter, req clinic.CreatePatientRequest) bool {
	fieldErrors := validate.PatientForm(validate.PatientFormData{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		PhoneNumber: req.PhoneNumber,
	})
	if len(fieldErrors) == 0 {
		return true
	}
	for field, msg := range fieldErrors {
		s.writeError(w, http.StatusBadRequest, codeValidation, msg, field)
		return false
	}
	return false
}
