package clinic

import (
	"context"
	"net/url"
	"time"

	"github.com/pegaso-health/clinicctl/internal/api"
	"github.com/pegaso-health/clinicctl/internal/wiretime"
)

// DoctorService maps doctor operations onto the backend.
type DoctorService struct {
	client *api.Client
}

// NewDoctorService builds a doctor service over the shared adapter.
func NewDoctorService(client *api.Client) *DoctorService {
	return &DoctorService{client: client}
}

// ListForSelector fetches the unfiltered doctor collection for the demo
// role-switcher, with identity suppressed and the limit applied client-side.
func (s *DoctorService) ListForSelector(ctx context.Context, limit int) ([]Doctor, error) {
	var doctors []Doctor
	if err := s.client.Get(ctx, routeDoctors, &doctors, api.SuppressIdentity()); err != nil {
		return nil, err
	}
	return capList(doctors, limit), nil
}

// Detail fetches one doctor by id.
func (s *DoctorService) Detail(ctx context.Context, id string) (*Doctor, error) {
	var doctor Doctor
	if err := s.client.Get(ctx, routeDoctor(id), &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// CurrentProfile fetches the profile selected by the X-Demo-Doctor-Id header.
func (s *DoctorService) CurrentProfile(ctx context.Context) (*Doctor, error) {
	var doctor Doctor
	if err := s.client.Get(ctx, routeDoctors, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// EligibleForExam lists the doctors assigned to an exam. When a time is
// given the backend also filters out doctors with a conflicting appointment;
// the instant goes on the wire as naive-UTC with zero seconds. An empty
// result is a normal, displayable outcome.
func (s *DoctorService) EligibleForExam(ctx context.Context, examID string, when *time.Time) ([]Doctor, error) {
	q := url.Values{}
	q.Set("examId", examID)
	if when != nil {
		q.Set("date", wiretime.Format(*when))
	}
	var doctors []Doctor
	if err := s.client.Get(ctx, routeDoctors, &doctors, api.WithQuery(q)); err != nil {
		return nil, err
	}
	return doctors, nil
}

// Create registers a new doctor.
func (s *DoctorService) Create(ctx context.Context, req CreateDoctorRequest) (*Doctor, error) {
	var doctor Doctor
	if err := s.client.Post(ctx, routeDoctors, req, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// UpdateProfile mutates the current profile (subject from the demo header).
func (s *DoctorService) UpdateProfile(ctx context.Context, req CreateDoctorRequest) (*Doctor, error) {
	var doctor Doctor
	if err := s.client.Patch(ctx, routeDoctors, req, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// DeleteProfile removes the current profile (subject from the demo header).
func (s *DoctorService) DeleteProfile(ctx context.Context) error {
	return s.client.Delete(ctx, routeDoctors)
}

// Exams lists the exams a doctor is assigned to.
func (s *DoctorService) Exams(ctx context.Context, id string) ([]ExamInfo, error) {
	var exams []ExamInfo
	if err := s.client.Get(ctx, routeDoctorExams(id), &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

// Appointments lists the appointments assigned to a doctor.
func (s *DoctorService) Appointments(ctx context.Context, id string) ([]Appointment, error) {
	var appointments []Appointment
	if err := s.client.Get(ctx, routeDoctorAppts(id), &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}
