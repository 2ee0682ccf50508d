package demoserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/identity"
	"github.com/pegaso-health/clinicctl/internal/wiretime"
)

// handleListAppointments scopes the listing to the caller: patients and
// doctors see their own, admins see everything.
func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	role, id, ok := identityFrom(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, codeUnauthorized, "Identità richiesta.", "")
		return
	}

	out := []clinic.Appointment{}
	for _, a := range s.store.Appointments() {
		switch role {
		case identity.RolePatient:
			if a.PatientID != id {
				continue
			}
		case identity.RoleDoctor:
			if a.DoctorID != id {
				continue
			}
		}
		out = append(out, a)
	}

	q := r.URL.Query()
	if raw := q.Get("status"); raw != "" {
		status, err := clinic.ParseStatus(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, codeValidation, "Stato non valido.", "status")
			return
		}
		out = filterAppointments(out, func(a clinic.Appointment) bool { return a.Status == status })
	}
	if raw := q.Get("from"); raw != "" {
		from, err := wiretime.Parse(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, codeValidation, "Data non valida.", "from")
			return
		}
		out = filterAppointments(out, func(a clinic.Appointment) bool {
			t, err := a.Date()
			return err == nil && !t.Before(from)
		})
	}
	if raw := q.Get("to"); raw != "" {
		to, err := wiretime.Parse(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, codeValidation, "Data non valida.", "to")
			return
		}
		out = filterAppointments(out, func(a clinic.Appointment) bool {
			t, err := a.Date()
			return err == nil && !t.After(to)
		})
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			s.writeError(w, http.StatusBadRequest, codeValidation, "Offset non valido.", "offset")
			return
		}
		if offset > len(out) {
			offset = len(out)
		}
		out = out[offset:]
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, codeValidation, "Limite non valido.", "limit")
			return
		}
		if limit < len(out) {
			out = out[:limit]
		}
	}

	s.writeJSON(w, http.StatusOK, out)
}

func filterAppointments(in []clinic.Appointment, keep func(clinic.Appointment) bool) []clinic.Appointment {
	out := in[:0]
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	role, id, ok := identityFrom(r)
	if !ok || role != identity.RolePatient {
		s.writeError(w, http.StatusUnauthorized, codeUnauthorized, "Identità paziente richiesta.", "")
		return
	}
	patient, found := s.store.PatientByID(id)
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Paziente non trovato.", "")
		return
	}

	var req clinic.CreateAppointmentRequest
	if !s.decode(w, r, &req) {
		return
	}
	exam, found := s.store.ExamByID(req.ExamID)
	if !found {
		s.writeError(w, http.StatusBadRequest, codeValidation, "Esame non trovato.", "examId")
		return
	}
	if !exam.IsActive {
		s.writeError(w, http.StatusBadRequest, codeValidation, "L'esame non è attualmente prenotabile.", "examId")
		return
	}
	doctor, found := s.store.DoctorByID(req.DoctorID)
	if !found {
		s.writeError(w, http.StatusBadRequest, codeValidation, "Medico non trovato.", "doctorId")
		return
	}
	if !doctorOffersExam(doctor, exam.ID) {
		s.writeError(w, http.StatusBadRequest, codeValidation, "Il medico non effettua questo esame.", "doctorId")
		return
	}
	start, err := wiretime.Parse(req.AppointmentDate)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, codeValidation, "Data non valida.", "appointmentDate")
		return
	}
	if !start.After(s.now()) {
		s.writeError(w, http.StatusBadRequest, codeValidation, "La data non può essere nel passato.", "appointmentDate")
		return
	}
	if s.store.HasConflict(doctor.ID, start, exam.DurationMinutes, "") {
		s.metrics.ObserveConflict()
		s.writeError(w, http.StatusConflict, codeBookingConflict,
			"Il medico ha già un appuntamento in questo orario.", "Scegli un altro orario o un altro medico.")
		return
	}

	appointment := s.store.AddAppointment(clinic.Appointment{
		PatientID:         patient.ID,
		PatientFirstName:  patient.FirstName,
		PatientLastName:   patient.LastName,
		PatientEmail:      patient.Email,
		DoctorID:          doctor.ID,
		DoctorFirstName:   doctor.FirstName,
		DoctorLastName:    doctor.LastName,
		DoctorGender:      doctor.Gender,
		ExamID:            exam.ID,
		ExamName:          exam.Name,
		AppointmentDate:   wiretime.Format(start),
		DurationMinutes:   exam.DurationMinutes,
		Status:            clinic.StatusPending,
		Reason:            req.Reason,
		Contraindications: req.Contraindications,
	})
	s.logger.Info("appointment booked",
		"appointment_id", appointment.ID,
		"patient_id", patient.ID,
		"doctor_id", doctor.ID,
		"date", appointment.AppointmentDate)
	s.writeJSON(w, http.StatusCreated, appointment)
}

func (s *Server) handleGetAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, _, ok := s.visibleAppointment(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, appointment)
}

func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, role, ok := s.visibleAppointment(w, r)
	if !ok {
		return
	}

	var req clinic.UpdateAppointmentRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.AppointmentDate != nil {
		if appointment.Status != clinic.StatusPending && appointment.Status != clinic.StatusConfirmed {
			s.writeError(w, http.StatusConflict, codeConflict, "L'appuntamento non è più modificabile.", "")
			return
		}
		start, err := wiretime.Parse(*req.AppointmentDate)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, codeValidation, "Data non valida.", "appointmentDate")
			return
		}
		if !start.After(s.now()) {
			s.writeError(w, http.StatusBadRequest, codeValidation, "La data non può essere nel passato.", "appointmentDate")
			return
		}
		if s.store.HasConflict(appointment.DoctorID, start, appointment.DurationMinutes, appointment.ID) {
			s.metrics.ObserveConflict()
			s.writeError(w, http.StatusConflict, codeBookingConflict,
				"Il medico ha già un appuntamento in questo orario.", "Scegli un altro orario o un altro medico.")
			return
		}
		appointment.AppointmentDate = wiretime.Format(start)
	}
	if req.Reason != nil {
		appointment.Reason = *req.Reason
	}
	if req.Contraindications != nil {
		appointment.Contraindications = *req.Contraindications
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			s.writeError(w, http.StatusBadRequest, codeValidation, "Stato non valido.", "status")
			return
		}
		if *req.Status != appointment.Status {
			if !transitionAllowed(appointment.Status, *req.Status, role) {
				if transitionAllowed(appointment.Status, *req.Status, identity.RoleAdmin) {
					s.writeError(w, http.StatusForbidden, codeForbidden,
						"Non hai i permessi per questa transizione.", "")
					return
				}
				s.writeError(w, http.StatusBadRequest, codeInvalidTransition,
					"Transizione di stato non consentita.",
					string(appointment.Status)+" -> "+string(*req.Status))
				return
			}
			s.logger.Info("appointment transition",
				"appointment_id", appointment.ID,
				"from", appointment.Status,
				"to", *req.Status,
				"role", role)
			appointment.Status = *req.Status
		}
	}

	if err := s.store.UpdateAppointment(appointment); err != nil {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Appuntamento non trovato.", "")
		return
	}
	s.writeJSON(w, http.StatusOK, appointment)
}

// handleCancelAppointment is the soft delete: the record survives with
// status cancelled.
func (s *Server) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, _, ok := s.visibleAppointment(w, r)
	if !ok {
		return
	}
	if appointment.Status != clinic.StatusPending && appointment.Status != clinic.StatusConfirmed {
		s.writeError(w, http.StatusConflict, codeConflict, "L'appuntamento non è più annullabile.", "")
		return
	}
	appointment.Status = clinic.StatusCancelled
	if err := s.store.UpdateAppointment(appointment); err != nil {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Appuntamento non trovato.", "")
		return
	}
	s.logger.Info("appointment cancelled", "appointment_id", appointment.ID)
	s.writeJSON(w, http.StatusNoContent, nil)
}

// transitionAllowed checks a status change against the lifecycle actions the
// role is offered.
func transitionAllowed(from, to clinic.Status, role identity.Role) bool {
	for _, action := range clinic.OfferedActions(from, role) {
		if action.TargetStatus() == to {
			return true
		}
	}
	return false
}

// visibleAppointment loads the appointment and enforces ownership: patients
// and doctors only reach their own records, admins reach all.
func (s *Server) visibleAppointment(w http.ResponseWriter, r *http.Request) (clinic.Appointment, identity.Role, bool) {
	role, id, ok := identityFrom(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, codeUnauthorized, "Identità richiesta.", "")
		return clinic.Appointment{}, "", false
	}
	appointment, found := s.store.AppointmentByID(chi.URLParam(r, "id"))
	if !found {
		s.writeError(w, http.StatusNotFound, codeNotFound, "Appuntamento non trovato.", "")
		return clinic.Appointment{}, "", false
	}
	switch role {
	case identity.RolePatient:
		if appointment.PatientID != id {
			s.writeError(w, http.StatusForbidden, codeForbidden, "Accesso negato.", "")
			return clinic.Appointment{}, "", false
		}
	case identity.RoleDoctor:
		if appointment.DoctorID != id {
			s.writeError(w, http.StatusForbidden, codeForbidden, "Accesso negato.", "")
			return clinic.Appointment{}, "", false
		}
	}
	return appointment, role, true
}
