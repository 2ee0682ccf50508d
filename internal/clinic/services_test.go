package clinic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pegaso-health/clinicctl/internal/api"
)

type testIdentity struct {
	header string
	id     string
}

func (t testIdentity) ActiveHeader() (string, string, bool) {
	if t.header == "" {
		return "", "", false
	}
	return t.header, t.id, true
}

func newTestAPI(t *testing.T, identity api.IdentitySource, handler http.HandlerFunc) *api.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return api.NewClient(ts.URL, identity, nil)
}

func TestDoctorListForSelector_SuppressesIdentityAndCapsResults(t *testing.T) {
	identity := testIdentity{header: "X-Demo-Doctor-Id", id: "doctor-1"}
	client := newTestAPI(t, identity, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Demo-Doctor-Id") != "" {
			t.Fatal("selector listing must not carry identity headers")
		}
		var doctors []Doctor
		for i := 0; i < 50; i++ {
			doctors = append(doctors, Doctor{ID: fmt.Sprintf("doctor-%d", i), FirstName: "Test", LastName: "Doctor"})
		}
		_ = json.NewEncoder(w).Encode(doctors)
	})

	doctors, err := NewDoctorService(client).ListForSelector(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListForSelector() error = %v", err)
	}
	if len(doctors) != 10 {
		t.Fatalf("len(doctors) = %d, want 10", len(doctors))
	}
}

func TestPatientListForSelector_DefaultLimit(t *testing.T) {
	client := newTestAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		var patients []Patient
		for i := 0; i < 30; i++ {
			patients = append(patients, Patient{ID: fmt.Sprintf("patient-%d", i)})
		}
		_ = json.NewEncoder(w).Encode(patients)
	})

	patients, err := NewPatientService(client).ListForSelector(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListForSelector() error = %v", err)
	}
	if len(patients) != DefaultSelectorLimit {
		t.Fatalf("len(patients) = %d, want %d", len(patients), DefaultSelectorLimit)
	}
}

func TestDoctorEligibleForExam_WireFormat(t *testing.T) {
	client := newTestAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/doctors" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("examId"); got != "exam-1" {
			t.Fatalf("examId = %q", got)
		}
		// naive-UTC wall clock, zero seconds, no offset marker
		if got := r.URL.Query().Get("date"); got != "2026-02-15T09:00:00" {
			t.Fatalf("date = %q, want 2026-02-15T09:00:00", got)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	cet := time.FixedZone("CET", 3600)
	when := time.Date(2026, 2, 15, 10, 0, 30, 0, cet)
	doctors, err := NewDoctorService(client).EligibleForExam(context.Background(), "exam-1", &when)
	if err != nil {
		t.Fatalf("EligibleForExam() error = %v", err)
	}
	if len(doctors) != 0 {
		t.Fatalf("expected empty result to be valid, got %d doctors", len(doctors))
	}
}

func TestDoctorEligibleForExam_NoDate(t *testing.T) {
	client := newTestAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("date") {
			t.Fatal("date must be omitted when no instant is given")
		}
		_, _ = w.Write([]byte(`[{"id":"doctor-1","firstName":"Laura","lastName":"Bianchi","gender":"F"}]`))
	})

	doctors, err := NewDoctorService(client).EligibleForExam(context.Background(), "exam-1", nil)
	if err != nil {
		t.Fatalf("EligibleForExam() error = %v", err)
	}
	if len(doctors) != 1 {
		t.Fatalf("len(doctors) = %d, want 1", len(doctors))
	}
	if got := doctors[0].DisplayName(); got != "Dott.ssa Laura Bianchi" {
		t.Fatalf("DisplayName() = %q", got)
	}
}

func TestPatientCurrentProfile_CarriesIdentity(t *testing.T) {
	identity := testIdentity{header: "X-Demo-Patient-Id", id: "patient-1"}
	client := newTestAPI(t, identity, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Demo-Patient-Id") != "patient-1" {
			t.Fatal("self-profile calls must carry the demo header")
		}
		_ = json.NewEncoder(w).Encode(Patient{ID: "patient-1", FirstName: "Mario", LastName: "Rossi"})
	})

	patient, err := NewPatientService(client).CurrentProfile(context.Background())
	if err != nil {
		t.Fatalf("CurrentProfile() error = %v", err)
	}
	if patient.FullName() != "Mario Rossi" {
		t.Fatalf("FullName() = %q", patient.FullName())
	}
}

func TestExamList_ActiveFilter(t *testing.T) {
	client := newTestAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("active") != "true" {
			t.Fatalf("active = %q, want true", r.URL.Query().Get("active"))
		}
		_ = json.NewEncoder(w).Encode([]Exam{{ID: "exam-1", Name: "Ecografia", DurationMinutes: 30, IsActive: true}})
	})

	exams, err := NewExamService(client).List(context.Background(), true)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(exams) != 1 || !exams[0].IsActive {
		t.Fatalf("exams = %+v", exams)
	}
}

func TestExamAdminPathsDifferFromReads(t *testing.T) {
	identity := testIdentity{header: "X-Demo-Admin-Id", id: "admin-1"}
	client := newTestAPI(t, identity, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /admin/exams":
			_ = json.NewEncoder(w).Encode(Exam{ID: "exam-9", Name: "Holter", DurationMinutes: 60, IsActive: true})
		case "PATCH /admin/exams/exam-9":
			_ = json.NewEncoder(w).Encode(Exam{ID: "exam-9", Name: "Holter", DurationMinutes: 45, IsActive: true})
		case "DELETE /admin/exams/exam-9":
			w.WriteHeader(http.StatusNoContent)
		case "POST /admin/exams/exam-9/doctors/doctor-1":
			w.WriteHeader(http.StatusCreated)
		case "DELETE /admin/exams/exam-9/doctors/doctor-1":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	svc := NewExamService(client)
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateExamRequest{Name: "Holter", DurationMinutes: 60}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	duration := 45
	if _, err := svc.Update(ctx, "exam-9", UpdateExamRequest{DurationMinutes: &duration}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := svc.AssignDoctor(ctx, "exam-9", "doctor-1"); err != nil {
		t.Fatalf("AssignDoctor() error = %v", err)
	}
	if err := svc.UnassignDoctor(ctx, "exam-9", "doctor-1"); err != nil {
		t.Fatalf("UnassignDoctor() error = %v", err)
	}
	if err := svc.Delete(ctx, "exam-9"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestAppointmentApply_PatchesThenRefetches(t *testing.T) {
	var patched bool
	client := newTestAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			var req UpdateAppointmentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode patch: %v", err)
			}
			if req.Status == nil || *req.Status != StatusConfirmed {
				t.Fatalf("patch status = %v, want confirmed", req.Status)
			}
			patched = true
			_ = json.NewEncoder(w).Encode(Appointment{ID: "appt-1", Status: StatusConfirmed})
		case http.MethodGet:
			if !patched {
				t.Fatal("refetch happened before the PATCH")
			}
			_ = json.NewEncoder(w).Encode(Appointment{ID: "appt-1", Status: StatusConfirmed, AppointmentDate: "2026-02-15T09:00:00"})
		}
	})

	appt, err := NewAppointmentService(client).Apply(context.Background(), "appt-1", ActionConfirm)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if appt.Status != StatusConfirmed {
		t.Fatalf("Status = %s, want confirmed", appt.Status)
	}
	if appt.DisplayDate() != "15/02/2026 09:00" {
		t.Fatalf("DisplayDate() = %q", appt.DisplayDate())
	}
}

func TestAppointmentList_Filters(t *testing.T) {
	client := newTestAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "pending" || q.Get("limit") != "20" || q.Get("from") != "2026-02-01T00:00:00" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		if q.Has("offset") {
			t.Fatal("zero offset must be omitted")
		}
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := NewAppointmentService(client).List(context.Background(), AppointmentFilters{
		Status: StatusPending,
		From:   "2026-02-01T00:00:00",
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
}

func TestAppointmentConflictPropagatesUnwrapped(t *testing.T) {
	client := newTestAPI(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"APPOINTMENT_CONFLICT","message":"slot occupato"}}`))
	})

	_, err := NewAppointmentService(client).Create(context.Background(), CreateAppointmentRequest{
		DoctorID: "doctor-1", ExamID: "exam-1", AppointmentDate: "2026-02-15T09:00:00",
	})
	if !api.IsConflict(err) {
		t.Fatalf("expected untouched conflict error, got %v", err)
	}
	apiErr, _ := api.AsError(err)
	if apiErr.Code != "APPOINTMENT_CONFLICT" {
		t.Fatalf("Code = %q", apiErr.Code)
	}
}
