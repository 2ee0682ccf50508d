package clinic

import (
	"context"

	"github.com/pegaso-health/clinicctl/internal/api"
)

// DefaultSelectorLimit caps the demo role-selector listings when no explicit
// limit is configured; the backend does not paginate those endpoints.
const DefaultSelectorLimit = 10

// PatientService maps patient operations onto the backend.
type PatientService struct {
	client *api.Client
}

// NewPatientService builds a patient service over the shared adapter.
func NewPatientService(client *api.Client) *PatientService {
	return &PatientService{client: client}
}

// ListForSelector fetches the unfiltered patient collection for the demo
// role-switcher. Identity headers are suppressed so the backend returns the
// whole list; the limit is applied client-side.
func (s *PatientService) ListForSelector(ctx context.Context, limit int) ([]Patient, error) {
	var patients []Patient
	if err := s.client.Get(ctx, routePatients, &patients, api.SuppressIdentity()); err != nil {
		return nil, err
	}
	return capList(patients, limit), nil
}

// Detail fetches one patient by id.
func (s *PatientService) Detail(ctx context.Context, id string) (*Patient, error) {
	var patient Patient
	if err := s.client.Get(ctx, routePatient(id), &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// CurrentProfile fetches the profile selected by the X-Demo-Patient-Id header.
func (s *PatientService) CurrentProfile(ctx context.Context) (*Patient, error) {
	var patient Patient
	if err := s.client.Get(ctx, routePatients, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// Create registers a new patient; no identity header is needed.
func (s *PatientService) Create(ctx context.Context, req CreatePatientRequest) (*Patient, error) {
	var patient Patient
	if err := s.client.Post(ctx, routePatients, req, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// UpdateProfile mutates the current profile. The subject comes from the demo
// header, so this call must not suppress identity.
func (s *PatientService) UpdateProfile(ctx context.Context, req CreatePatientRequest) (*Patient, error) {
	var patient Patient
	if err := s.client.Patch(ctx, routePatients, req, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// DeleteProfile removes the current profile (subject from the demo header).
func (s *PatientService) DeleteProfile(ctx context.Context) error {
	return s.client.Delete(ctx, routePatients)
}

// Appointments lists the appointments booked by a patient.
func (s *PatientService) Appointments(ctx context.Context, id string) ([]Appointment, error) {
	var appointments []Appointment
	if err := s.client.Get(ctx, routePatientAppts(id), &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func capList[T any](list []T, limit int) []T {
	if limit <= 0 {
		limit = DefaultSelectorLimit
	}
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
