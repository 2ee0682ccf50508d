package demoserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/identity"
	"github.com/pegaso-health/clinicctl/internal/validate"
	"github.com/pegaso-health/clinicctl/internal/wiretime"
)

// handleDoctorsRoot serves three views on one path: the self profile
// (X-Demo-Doctor-Id present), the exam eligibility listing (examId query,
// optionally narrowed by a date) and the plain selector listing.
func (s *Server) handleDoctorsRoot(w http.ResponseWriter, r *http.Request) {
	role, id, ok := identityFrom(r)
	if ok && role == identity.RoleDoctor && r.URL.Query().Get("examId") == "" {
		doctor, found := s.store.DoctorByID(id)
		if !found {
			s.writeError(w, http.StatusNotFound, codeNotFound, "Medico non trovato.", "")
			return
		}
		s.writeJSON(w, http.StatusOK, doctor)
		return
	}

	examID := r.URL.Query().Get("examId")
	if examID == "" {
		s.writeJSON(w, http.StatusOK, s.store.Doctors())
		return
	}

	exam, found := s.store.ExamByID(examID)
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Esame non trovato.", "")
		return
	}

	var when *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		t, err := wiretime.Parse(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, codeValidation, "Data non valida.", "date")
			return
		}
		when = &t
	}

	eligible := []clinic.Doctor{}
	for _, doctor := range s.store.Doctors() {
		if !doctorOffersExam(doctor, exam.ID) {
			continue
		}
		if when != nil && s.store.HasConflict(doctor.ID, *when, exam.DurationMinutes, "") {
			continue
		}
		eligible = append(eligible, doctor)
	}
	s.writeJSON(w, http.StatusOK, eligible)
}

func doctorOffersExam(d clinic.Doctor, examID string) bool {
	for _, info := range d.Exams {
		if info.ExamID == examID {
			return true
		}
	}
	return false
}

func (s *Server) handleCreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req clinic.CreateDoctorRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.PhoneNumber = validate.NormalizePhoneNumber(req.PhoneNumber)
	if !s.validDoctor(w, req) {
		return
	}
	exams := make([]clinic.ExamInfo, 0, len(req.ExamIDs))
	for _, examID := range req.ExamIDs {
		exam, found := s.store.ExamByID(examID)
		if !found {
			s.writeError(w, http.StatusBadRequest, codeValidation, "Esame non trovato.", examID)
			return
		}
		exams = append(exams, clinic.ExamInfo{ExamID: exam.ID, ExamName: exam.Name, Description: exam.Description})
	}
	doctor := s.store.AddDoctor(clinic.Doctor{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
		Gender:         req.Gender,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Exams:          exams,
	})
	s.logger.Info("doctor created", "doctor_id", doctor.ID)
	s.writeJSON(w, http.StatusCreated, doctor)
}

func (s *Server) handleUpdateDoctorProfile(w http.ResponseWriter, r *http.Request) {
	doctor, ok := s.currentDoctor(w, r)
	if !ok {
		return
	}
	var req clinic.CreateDoctorRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.PhoneNumber = validate.NormalizePhoneNumber(req.PhoneNumber)
	if !s.validDoctor(w, req) {
		return
	}
	doctor.FirstName = req.FirstName
	doctor.LastName = req.LastName
	doctor.Specialization = req.Specialization
	doctor.Gender = req.Gender
	doctor.Email = req.Email
	doctor.PhoneNumber = req.PhoneNumber
	if err := s.store.UpdateDoctor(doctor); err != nil {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Medico non trovato.", "")
		return
	}
	s.writeJSON(w, http.StatusOK, doctor)
}

func (s *Server) handleDeleteDoctorProfile(w http.ResponseWriter, r *http.Request) {
	doctor, ok := s.currentDoctor(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteDoctor(doctor.ID); err != nil {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Medico non trovato.", "")
		return
	}
	s.logger.Info("doctor deleted", "doctor_id", doctor.ID)
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleGetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, found := s.store.DoctorByID(chi.URLParam(r, "id"))
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Medico non trovato.", "")
		return
	}
	s.writeJSON(w, http.StatusOK, doctor)
}

func (s *Server) handleDoctorExams(w http.ResponseWriter, r *http.Request) {
	doctor, found := s.store.DoctorByID(chi.URLParam(r, "id"))
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Medico non trovato.", "")
		return
	}
	exams := doctor.Exams
	if exams == nil {
		exams = []clinic.ExamInfo{}
	}
	s.writeJSON(w, http.StatusOK, exams)
}

func (s *Server) handleDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, found := s.store.DoctorByID(id); !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Medico non trovato.", "")
		return
	}
	out := []clinic.Appointment{}
	for _, a := range s.store.Appointments() {
		if a.DoctorID == id {
			out = append(out, a)
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) currentDoctor(w http.ResponseWriter, r *http.Request) (clinic.Doctor, bool) {
	role, id, ok := identityFrom(r)
	if !ok || role != identity.RoleDoctor {
		s.writeError(w, http.StatusUnauthorized, codeUnauthorized, "Identità medico richiesta.", "")
		return clinic.Doctor{}, false
	}
	doctor, found := s.store.DoctorByID(id)
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Medico non trovato.", "")
		return clinic.Doctor{}, false
	}
	return doctor, true
}

func (s *Server) validDoctor(w http.ResponseWriter, req clinic.CreateDoctorRequest) bool {
	fieldErrors := validate.DoctorForm(validate.DoctorFormData{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Specialization: req.Specialization,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
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
