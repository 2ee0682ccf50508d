package demoserver

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/wiretime"
)

var (
	errNotFound   = errors.New("not found")
	errAssigned   = errors.New("already assigned")
	errUnassigned = errors.New("not assigned")
)

// Store is the in-memory dataset backing the demo API. All access goes
// through the methods; returned slices and structs are copies.
type Store struct {
	mu           sync.RWMutex
	patients     []clinic.Patient
	doctors      []clinic.Doctor
	exams        []clinic.Exam
	appointments []clinic.Appointment
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Patients() []clinic.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]clinic.Patient, len(s.patients))
	copy(out, s.patients)
	return out
}

func (s *Store) PatientByID(id string) (clinic.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if p.ID == id {
			return p, true
		}
	}
	return clinic.Patient{}, false
}

func (s *Store) AddPatient(p clinic.Patient) clinic.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.patients = append(s.patients, p)
	return p
}

func (s *Store) UpdatePatient(p clinic.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].ID == p.ID {
			s.patients[i] = p
			return nil
		}
	}
	return errNotFound
}

// DeletePatient removes the profile and cancels its open appointments.
func (s *Store) DeletePatient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].ID == id {
			s.patients = append(s.patients[:i], s.patients[i+1:]...)
			for j := range s.appointments {
				a := &s.appointments[j]
				if a.PatientID == id && (a.Status == clinic.StatusPending || a.Status == clinic.StatusConfirmed) {
					a.Status = clinic.StatusCancelled
				}
			}
			return nil
		}
	}
	return errNotFound
}

// cloneDoctor copies the struct and its Exams backing array. Assignment
// mutations edit the store's slice in place, so handing out a shared
// header would let readers race with AssignDoctor/UnassignDoctor.
func cloneDoctor(d clinic.Doctor) clinic.Doctor {
	if d.Exams != nil {
		exams := make([]clinic.ExamInfo, len(d.Exams))
		copy(exams, d.Exams)
		d.Exams = exams
	}
	return d
}

func (s *Store) Doctors() []clinic.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]clinic.Doctor, len(s.doctors))
	for i, d := range s.doctors {
		out[i] = cloneDoctor(d)
	}
	return out
}

func (s *Store) DoctorByID(id string) (clinic.Doctor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.doctors {
		if d.ID == id {
			return cloneDoctor(d), true
		}
	}
	return clinic.Doctor{}, false
}

func (s *Store) AddDoctor(d clinic.Doctor) clinic.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.doctors = append(s.doctors, cloneDoctor(d))
	return d
}

func (s *Store) UpdateDoctor(d clinic.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doctors {
		if s.doctors[i].ID == d.ID {
			s.doctors[i] = cloneDoctor(d)
			return nil
		}
	}
	return errNotFound
}

// DeleteDoctor removes the profile and cancels its open appointments.
func (s *Store) DeleteDoctor(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doctors {
		if s.doctors[i].ID == id {
			s.doctors = append(s.doctors[:i], s.doctors[i+1:]...)
			for j := range s.appointments {
				a := &s.appointments[j]
				if a.DoctorID == id && (a.Status == clinic.StatusPending || a.Status == clinic.StatusConfirmed) {
					a.Status = clinic.StatusCancelled
				}
			}
			return nil
		}
	}
	return errNotFound
}

func (s *Store) Exams(activeOnly bool) []clinic.Exam {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]clinic.Exam, 0, len(s.exams))
	for _, e := range s.exams {
		if activeOnly && !e.IsActive {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *Store) ExamByID(id string) (clinic.Exam, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.exams {
		if e.ID == id {
			return e, true
		}
	}
	return clinic.Exam{}, false
}

func (s *Store) AddExam(e clinic.Exam) clinic.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.exams = append(s.exams, e)
	return e
}

func (s *Store) UpdateExam(e clinic.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.exams {
		if s.exams[i].ID == e.ID {
			s.exams[i] = e
			return nil
		}
	}
	return errNotFound
}

// DeleteExam removes the exam and its doctor assignments.
func (s *Store) DeleteExam(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.exams {
		if s.exams[i].ID == id {
			s.exams = append(s.exams[:i], s.exams[i+1:]...)
			for j := range s.doctors {
				d := &s.doctors[j]
				for k := range d.Exams {
					if d.Exams[k].ExamID == id {
						d.Exams = append(d.Exams[:k], d.Exams[k+1:]...)
						break
					}
				}
			}
			return nil
		}
	}
	return errNotFound
}

// AssignDoctor links a doctor to an exam, making them bookable for it.
func (s *Store) AssignDoctor(examID, doctorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exam *clinic.Exam
	for i := range s.exams {
		if s.exams[i].ID == examID {
			exam = &s.exams[i]
			break
		}
	}
	if exam == nil {
		return errNotFound
	}
	for i := range s.doctors {
		if s.doctors[i].ID != doctorID {
			continue
		}
		for _, info := range s.doctors[i].Exams {
			if info.ExamID == examID {
				return errAssigned
			}
		}
		s.doctors[i].Exams = append(s.doctors[i].Exams, clinic.ExamInfo{
			ExamID:      exam.ID,
			ExamName:    exam.Name,
			Description: exam.Description,
		})
		return nil
	}
	return errNotFound
}

func (s *Store) UnassignDoctor(examID, doctorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doctors {
		if s.doctors[i].ID != doctorID {
			continue
		}
		for k, info := range s.doctors[i].Exams {
			if info.ExamID == examID {
				s.doctors[i].Exams = append(s.doctors[i].Exams[:k], s.doctors[i].Exams[k+1:]...)
				return nil
			}
		}
		return errUnassigned
	}
	return errNotFound
}

func (s *Store) Appointments() []clinic.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]clinic.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

func (s *Store) AppointmentByID(id string) (clinic.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.ID == id {
			return a, true
		}
	}
	return clinic.Appointment{}, false
}

func (s *Store) AddAppointment(a clinic.Appointment) clinic.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.appointments = append(s.appointments, a)
	return a
}

func (s *Store) UpdateAppointment(a clinic.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == a.ID {
			s.appointments[i] = a
			return nil
		}
	}
	return errNotFound
}

// HasConflict reports whether the doctor already has an open appointment
// overlapping the [start, start+duration) slot. excludeID skips the
// appointment being rescheduled.
func (s *Store) HasConflict(doctorID string, start time.Time, durationMinutes int, excludeID string) bool {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.DoctorID != doctorID || a.ID == excludeID {
			continue
		}
		if a.Status != clinic.StatusPending && a.Status != clinic.StatusConfirmed {
			continue
		}
		otherStart, err := wiretime.Parse(a.AppointmentDate)
		if err != nil {
			continue
		}
		otherEnd := otherStart.Add(time.Duration(a.DurationMinutes) * time.Minute)
		if otherStart.Before(end) && start.Before(otherEnd) {
			return true
		}
	}
	return false
}
