package demoserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/validate"
)

func (s *Server) handleListExams(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	s.writeJSON(w, http.StatusOK, s.store.Exams(activeOnly))
}

func (s *Server) handleGetExam(w http.ResponseWriter, r *http.Request) {
	exam, found := s.store.ExamByID(chi.URLParam(r, "id"))
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Esame non trovato.", "")
		return
	}
	s.writeJSON(w, http.StatusOK, exam)
}

func (s *Server) handleCreateExam(w http.ResponseWriter, r *http.Request) {
	var req clinic.CreateExamRequest
	if !s.decode(w, r, &req) {
		return
	}
	if msg := validate.ExamName(req.Name); msg != "" {
		s.writeError(w, http.StatusBadRequest, codeValidation, msg, "name")
		return
	}
	if msg := validate.ExamDuration(req.DurationMinutes); msg != "" {
		s.writeError(w, http.StatusBadRequest, codeValidation, msg, "durationMinutes")
		return
	}
	for _, existing := range s.store.Exams(false) {
		if existing.Name == req.Name {
			s.writeError(w, http.StatusConflict, codeConflict, "Esiste già un esame con questo nome.", "name")
			return
		}
	}
	exam := s.store.AddExam(clinic.Exam{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	})
	s.logger.Info("exam created", "exam_id", exam.ID, "name", exam.Name)
	s.writeJSON(w, http.StatusCreated, exam)
}

func (s *Server) handleUpdateExam(w http.ResponseWriter, r *http.Request) {
	exam, found := s.store.ExamByID(chi.URLParam(r, "id"))
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Esame non trovato.", "")
		return
	}
	var req clinic.UpdateExamRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name != nil {
		if msg := validate.ExamName(*req.Name); msg != "" {
			s.writeError(w, http.StatusBadRequest, codeValidation, msg, "name")
			return
		}
		exam.Name = *req.Name
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		if msg := validate.ExamDuration(*req.DurationMinutes); msg != "" {
			s.writeError(w, http.StatusBadRequest, codeValidation, msg, "durationMinutes")
			return
		}
		exam.DurationMinutes = *req.DurationMinutes
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
	if err := s.store.UpdateExam(exam); err != nil {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Esame non trovato.", "")
		return
	}
	s.writeJSON(w, http.StatusOK, exam)
}

func (s *Server) handleDeleteExam(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExam(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Esame non trovato.", "")
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAssignDoctor(w http.ResponseWriter, r *http.Request) {
	examID := chi.URLParam(r, "id")
	doctorID := chi.URLParam(r, "doctorId")
	switch err := s.store.AssignDoctor(examID, doctorID); {
	case errors.Is(err, errNotFound):
		s.writeError(w, http.StatusNotFound, codeNotFound, "Esame o medico non trovato.", "")
	case errors.Is(err, errAssigned):
		s.writeError(w, http.StatusConflict, codeConflict, "Il medico è già assegnato a questo esame.", "")
	default:
		s.logger.Info("doctor assigned to exam", "exam_id", examID, "doctor_id", doctorID)
		s.writeJSON(w, http.StatusNoContent, nil)
	}
}

func (s *Server) handleUnassignDoctor(w http.ResponseWriter, r *http.Request) {
	examID := chi.URLParam(r, "id")
	doctorID := chi.URLParam(r, "doctorId")
	switch err := s.store.UnassignDoctor(examID, doctorID); {
	case errors.Is(err, errNotFound):
		s.writeError(w, http.StatusNotFound, codeNotFound, "Esame o medico non trovato.", "")
	case errors.Is(err, errUnassigned):
		s.writeError(w, http.StatusConflict, codeConflict, "Il medico non è assegnato a questo esame.", "")
	default:
		s.writeJSON(w, http.StatusNoContent, nil)
	}
}

func (s *Server) handleAdminListPatients(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Patients())
}

func (s *Server) handleAdminListDoctors(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Doctors())
}
