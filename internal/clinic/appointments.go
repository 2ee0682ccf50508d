package clinic

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pegaso-health/clinicctl/internal/api"
)

// AppointmentFilters narrows appointment listings. Zero values are omitted
// from the query.
type AppointmentFilters struct {
	Status Status
	From   string
	To     string
	Limit  int
	Offset int
}

func (f AppointmentFilters) values() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.From != "" {
		q.Set("from", f.From)
	}
	if f.To != "" {
		q.Set("to", f.To)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

// AppointmentService maps appointment operations onto the backend. Which
// appointments a call sees, and which transitions it may perform, follow from
// the identity header the adapter attaches.
type AppointmentService struct {
	client *api.Client
}

// NewAppointmentService builds an appointment service over the shared adapter.
func NewAppointmentService(client *api.Client) *AppointmentService {
	return &AppointmentService{client: client}
}

// List fetches appointments visible to the current identity.
func (s *AppointmentService) List(ctx context.Context, filters AppointmentFilters) ([]Appointment, error) {
	opts := []api.RequestOption{}
	if q := filters.values(); len(q) > 0 {
		opts = append(opts, api.WithQuery(q))
	}
	var appointments []Appointment
	if err := s.client.Get(ctx, routeAppointments, &appointments, opts...); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Detail fetches one appointment by id.
func (s *AppointmentService) Detail(ctx context.Context, id string) (*Appointment, error) {
	var appointment Appointment
	if err := s.client.Get(ctx, routeAppointment(id), &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Create books an appointment for the current patient identity.
func (s *AppointmentService) Create(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	var appointment Appointment
	if err := s.client.Post(ctx, routeAppointments, req, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Update mutates an appointment.
func (s *AppointmentService) Update(ctx context.Context, id string, req UpdateAppointmentRequest) (*Appointment, error) {
	var appointment Appointment
	if err := s.client.Patch(ctx, routeAppointment(id), req, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Cancel soft-deletes an appointment; the backend sets its status to
// cancelled.
func (s *AppointmentService) Cancel(ctx context.Context, id string) error {
	return s.client.Delete(ctx, routeAppointment(id))
}

// Apply executes a lifecycle action as a single PATCH carrying the target
// status, then refetches the appointment so the caller renders whatever the
// server now holds, including a rejected transition.
func (s *AppointmentService) Apply(ctx context.Context, id string, action Action) (*Appointment, error) {
	target := action.TargetStatus()
	if _, err := s.Update(ctx, id, UpdateAppointmentRequest{Status: &target}); err != nil {
		return nil, err
	}
	return s.Detail(ctx, id)
}
