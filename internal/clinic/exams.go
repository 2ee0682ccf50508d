package clinic

import (
	"context"
	"net/url"

	"github.com/pegaso-health/clinicctl/internal/api"
)

// ExamService maps exam catalog operations onto the backend. Reads are
// public; mutations go through the admin-scoped paths and require the
// X-Demo-Admin-Id header.
type ExamService struct {
	client *api.Client
}

// NewExamService builds an exam service over the shared adapter.
func NewExamService(client *api.Client) *ExamService {
	return &ExamService{client: client}
}

// List fetches the exam catalog. With activeOnly the backend returns only
// exams currently offered for booking.
func (s *ExamService) List(ctx context.Context, activeOnly bool) ([]Exam, error) {
	opts := []api.RequestOption{}
	if activeOnly {
		q := url.Values{}
		q.Set("active", "true")
		opts = append(opts, api.WithQuery(q))
	}
	var exams []Exam
	if err := s.client.Get(ctx, routeExams, &exams, opts...); err != nil {
		return nil, err
	}
	return exams, nil
}

// Detail fetches one exam by id.
func (s *ExamService) Detail(ctx context.Context, id string) (*Exam, error) {
	var exam Exam
	if err := s.client.Get(ctx, routeExam(id), &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

// Create adds an exam to the catalog (admin).
func (s *ExamService) Create(ctx context.Context, req CreateExamRequest) (*Exam, error) {
	var exam Exam
	if err := s.client.Post(ctx, routeAdminExams, req, &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

// Update mutates an exam (admin).
func (s *ExamService) Update(ctx context.Context, id string, req UpdateExamRequest) (*Exam, error) {
	var exam Exam
	if err := s.client.Patch(ctx, routeAdminExam(id), req, &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

// Delete removes an exam from the catalog (admin).
func (s *ExamService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, routeAdminExam(id))
}

// AssignDoctor creates the doctor-exam assignment that makes a doctor
// bookable for an exam (admin).
func (s *ExamService) AssignDoctor(ctx context.Context, examID, doctorID string) error {
	return s.client.Post(ctx, routeExamDoctor(examID, doctorID), nil, nil)
}

// UnassignDoctor removes a doctor-exam assignment (admin).
func (s *ExamService) UnassignDoctor(ctx context.Context, examID, doctorID string) error {
	return s.client.Delete(ctx, routeExamDoctor(examID, doctorID))
}
