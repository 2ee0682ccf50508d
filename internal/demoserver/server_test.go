package demoserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pegaso-health/clinicctl/internal/clinic"
	"github.com/pegaso-health/clinicctl/internal/wiretime"
	"github.com/pegaso-health/clinicctl/pkg/logging"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	store := NewStore()
	Seed(store, testNow)
	srv := New(store,
		WithLogger(logging.NewWithWriter(&bytes.Buffer{}, "error", "text")),
		WithMetrics(NewRequestMetrics(prometheus.NewRegistry())),
		WithClock(func() time.Time { return testNow }),
	)
	return srv.Handler()
}

func doRequest(t *testing.T, h http.Handler, method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody[map[string]errorBody](t, rec)
	return body["error"].Code
}

var (
	asPatient = map[string]string{"X-Demo-Patient-Id": "p-001"}
	asDoctor  = map[string]string{"X-Demo-Doctor-Id": "d-001"}
	asAdmin   = map[string]string{"X-Demo-Admin-Id": "admin-1"}
)

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "UP"}, decodeBody[map[string]string](t, rec))
}

func TestPatientsRootSwitchesOnIdentity(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/patients", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]clinic.Patient](t, rec), 3)

	rec = doRequest(t, h, http.MethodGet, "/api/patients", asPatient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	self := decodeBody[clinic.Patient](t, rec)
	assert.Equal(t, "Mario", self.FirstName)

	rec = doRequest(t, h, http.MethodGet, "/api/patients", map[string]string{"X-Demo-Patient-Id": "nope"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTwoIdentityHeadersFallBackToListing(t *testing.T) {
	h := newTestHandler(t)
	headers := map[string]string{"X-Demo-Patient-Id": "p-001", "X-Demo-Doctor-Id": "d-001"}
	rec := doRequest(t, h, http.MethodGet, "/api/patients", headers, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]clinic.Patient](t, rec), 3)
}

func TestCreatePatientValidatesAndNormalizesPhone(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/api/patients", nil, clinic.CreatePatientRequest{
		FirstName: "Anna", LastName: "Verdi", PhoneNumber: "333 123 4567",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[clinic.Patient](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "+393331234567", created.PhoneNumber)

	rec = doRequest(t, h, http.MethodPost, "/api/patients", nil, clinic.CreatePatientRequest{FirstName: "X"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeValidation, errorCode(t, rec))
}

func TestDoctorEligibility(t *testing.T) {
	h := newTestHandler(t)

	// Cardiology exam is offered by d-001 only.
	rec := doRequest(t, h, http.MethodGet, "/api/doctors?examId=e-001", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	eligible := decodeBody[[]clinic.Doctor](t, rec)
	require.Len(t, eligible, 1)
	assert.Equal(t, "d-001", eligible[0].ID)

	// d-001 has a pending appointment at now+48h, so that slot filters them
	// out and the result set is legitimately empty.
	busy := wiretime.Format(testNow.Add(48 * time.Hour))
	rec = doRequest(t, h, http.MethodGet, "/api/doctors?examId=e-001&date="+busy, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]clinic.Doctor](t, rec))

	rec = doRequest(t, h, http.MethodGet, "/api/doctors?examId=missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingHappyPath(t *testing.T) {
	h := newTestHandler(t)
	when := wiretime.Format(testNow.Add(120 * time.Hour))

	rec := doRequest(t, h, http.MethodPost, "/api/appointments", asPatient, clinic.CreateAppointmentRequest{
		DoctorID: "d-001", ExamID: "e-001", AppointmentDate: when, Reason: "Dolore al petto",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[clinic.Appointment](t, rec)
	assert.Equal(t, clinic.StatusPending, created.Status)
	assert.Equal(t, 30, created.DurationMinutes)
	assert.Equal(t, "Mario", created.PatientFirstName)
	assert.Equal(t, "Bianchi", created.DoctorLastName)
	assert.Equal(t, when, created.AppointmentDate)
}

func TestBookingRejectsConflictAndPast(t *testing.T) {
	h := newTestHandler(t)

	// Overlaps the seeded pending appointment of d-001 (now+48h, 30 min).
	when := wiretime.Format(testNow.Add(48*time.Hour + 15*time.Minute))
	rec := doRequest(t, h, http.MethodPost, "/api/appointments", asPatient, clinic.CreateAppointmentRequest{
		DoctorID: "d-001", ExamID: "e-001", AppointmentDate: when,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, codeBookingConflict, errorCode(t, rec))

	past := wiretime.Format(testNow.Add(-time.Hour))
	rec = doRequest(t, h, http.MethodPost, "/api/appointments", asPatient, clinic.CreateAppointmentRequest{
		DoctorID: "d-001", ExamID: "e-001", AppointmentDate: past,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Inactive exams are not bookable.
	rec = doRequest(t, h, http.MethodPost, "/api/appointments", asPatient, clinic.CreateAppointmentRequest{
		DoctorID: "d-002", ExamID: "e-004", AppointmentDate: wiretime.Format(testNow.Add(200 * time.Hour)),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointmentListingIsScoped(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/appointments", asAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]clinic.Appointment](t, rec), 4)

	rec = doRequest(t, h, http.MethodGet, "/api/appointments", asPatient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, a := range decodeBody[[]clinic.Appointment](t, rec) {
		assert.Equal(t, "p-001", a.PatientID)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/appointments?status=pending", asAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decodeBody[[]clinic.Appointment](t, rec)
	require.Len(t, pending, 1)
	assert.Equal(t, "a-001", pending[0].ID)

	rec = doRequest(t, h, http.MethodGet, "/api/appointments", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLifecycleTransitions(t *testing.T) {
	h := newTestHandler(t)
	confirmed := clinic.StatusConfirmed
	completed := clinic.StatusCompleted
	pending := clinic.StatusPending
	cancelled := clinic.StatusCancelled

	// Patient confirms their own pending appointment.
	rec := doRequest(t, h, http.MethodPatch, "/api/appointments/a-001", asPatient,
		clinic.UpdateAppointmentRequest{Status: &confirmed})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clinic.StatusConfirmed, decodeBody[clinic.Appointment](t, rec).Status)

	// Completing is staff-only; the patient gets a 403.
	rec = doRequest(t, h, http.MethodPatch, "/api/appointments/a-001", asPatient,
		clinic.UpdateAppointmentRequest{Status: &completed})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// The assigned doctor may complete it.
	rec = doRequest(t, h, http.MethodPatch, "/api/appointments/a-001", asDoctor,
		clinic.UpdateAppointmentRequest{Status: &completed})
	require.Equal(t, http.StatusOK, rec.Code)

	// Completed appointments can't be cancelled by anyone.
	rec = doRequest(t, h, http.MethodPatch, "/api/appointments/a-001", asAdmin,
		clinic.UpdateAppointmentRequest{Status: &cancelled})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeInvalidTransition, errorCode(t, rec))

	// But staff can revert them to pending.
	rec = doRequest(t, h, http.MethodPatch, "/api/appointments/a-001", asDoctor,
		clinic.UpdateAppointmentRequest{Status: &pending})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteIsSoftCancel(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodDelete, "/api/appointments/a-001", asPatient, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/appointments/a-001", asPatient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clinic.StatusCancelled, decodeBody[clinic.Appointment](t, rec).Status)

	// Cancelling twice is a conflict.
	rec = doRequest(t, h, http.MethodDelete, "/api/appointments/a-001", asPatient, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOwnershipIsEnforced(t *testing.T) {
	h := newTestHandler(t)

	// a-002 belongs to p-002; p-001 must not see it.
	rec := doRequest(t, h, http.MethodGet, "/api/appointments/a-002", asPatient, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// d-001 is not the assigned doctor of a-002 either.
	rec = doRequest(t, h, http.MethodGet, "/api/appointments/a-002", asDoctor, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/appointments/a-002", asAdmin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminExamManagement(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/api/admin/exams", nil, clinic.CreateExamRequest{Name: "Spirometria", DurationMinutes: 25})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/admin/exams", asPatient, clinic.CreateExamRequest{Name: "Spirometria", DurationMinutes: 25})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/admin/exams", asAdmin, clinic.CreateExamRequest{Name: "Spirometria", DurationMinutes: 25})
	require.Equal(t, http.StatusCreated, rec.Code)
	exam := decodeBody[clinic.Exam](t, rec)
	assert.True(t, exam.IsActive)

	// Duplicate name.
	rec = doRequest(t, h, http.MethodPost, "/api/admin/exams", asAdmin, clinic.CreateExamRequest{Name: "Spirometria", DurationMinutes: 25})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Deactivating removes the exam from the active catalog.
	inactive := false
	rec = doRequest(t, h, http.MethodPatch, "/api/admin/exams/"+exam.ID, asAdmin, clinic.UpdateExamRequest{IsActive: &inactive})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, h, http.MethodGet, "/api/exams?active=true", nil, nil)
	for _, e := range decodeBody[[]clinic.Exam](t, rec) {
		assert.NotEqual(t, exam.ID, e.ID)
	}
}

func TestDoctorAssignment(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/api/admin/exams/e-003/doctors/d-001", asAdmin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/doctors/d-001/exams", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exams := decodeBody[[]clinic.ExamInfo](t, rec)
	require.Len(t, exams, 2)

	// Assigning twice is a conflict.
	rec = doRequest(t, h, http.MethodPost, "/api/admin/exams/e-003/doctors/d-001", asAdmin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/api/admin/exams/e-003/doctors/d-001", asAdmin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/api/admin/exams/e-003/doctors/d-001", asAdmin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeletePatientCancelsOpenAppointments(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodDelete, "/api/patients", asPatient, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// a-001 was pending for p-001, now cancelled; the completed a-003 stays.
	rec = doRequest(t, h, http.MethodGet, "/api/appointments/a-001", asAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clinic.StatusCancelled, decodeBody[clinic.Appointment](t, rec).Status)

	rec = doRequest(t, h, http.MethodGet, "/api/appointments/a-003", asAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clinic.StatusCompleted, decodeBody[clinic.Appointment](t, rec).Status)
}
