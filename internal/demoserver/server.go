// Package demoserver is the in-memory stand-in for the appointments backend.
// It serves the same REST surface and demo-header identity scheme so the CLI
// can run end-to-end without a real deployment. State lives in a Store and
// resets on restart.
package demoserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pegaso-health/clinicctl/internal/identity"
	"github.com/pegaso-health/clinicctl/pkg/logging"
)

// Codes carried in structured error bodies.
const (
	codeValidation        = "VALIDATION_ERROR"
	codeNotFound          = "NOT_FOUND"
	codeUnauthorized      = "UNAUTHORIZED"
	codeForbidden         = "FORBIDDEN"
	codeConflict          = "CONFLICT"
	codeBookingConflict   = "APPOINTMENT_CONFLICT"
	codeInvalidTransition = "INVALID_TRANSITION"
)

// Server wires the store, logging and metrics behind the HTTP surface.
type Server struct {
	store   *Store
	logger  *logging.Logger
	metrics *RequestMetrics
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics sets the request metrics collector.
func WithMetrics(m *RequestMetrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a server over the given store.
func New(store *Store, opts ...Option) *Server {
	s := &Server{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	return s
}

// Handler builds the router. The API lives under /api to match the default
// client base URL; /metrics stays at the root.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.handleHealth)

		api.Route("/patients", func(r chi.Router) {
			r.Get("/", s.handlePatientsRoot)
			r.Post("/", s.handleCreatePatient)
			r.Patch("/", s.handleUpdatePatientProfile)
			r.Delete("/", s.handleDeletePatientProfile)
			r.Get("/{id}", s.handleGetPatient)
			r.Get("/{id}/appointments", s.handlePatientAppointments)
		})

		api.Route("/doctors", func(r chi.Router) {
			r.Get("/", s.handleDoctorsRoot)
			r.Post("/", s.handleCreateDoctor)
			r.Patch("/", s.handleUpdateDoctorProfile)
			r.Delete("/", s.handleDeleteDoctorProfile)
			r.Get("/{id}", s.handleGetDoctor)
			r.Get("/{id}/exams", s.handleDoctorExams)
			r.Get("/{id}/appointments", s.handleDoctorAppointments)
		})

		api.Route("/exams", func(r chi.Router) {
			r.Get("/", s.handleListExams)
			r.Get("/{id}", s.handleGetExam)
		})

		api.Route("/appointments", func(r chi.Router) {
			r.Get("/", s.handleListAppointments)
			r.Post("/", s.handleCreateAppointment)
			r.Get("/{id}", s.handleGetAppointment)
			r.Patch("/{id}", s.handleUpdateAppointment)
			r.Delete("/{id}", s.handleCancelAppointment)
		})

		api.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/patients", s.handleAdminListPatients)
			r.Get("/doctors", s.handleAdminListDoctors)
			r.Route("/exams", func(r chi.Router) {
				r.Post("/", s.handleCreateExam)
				r.Patch("/{id}", s.handleUpdateExam)
				r.Delete("/{id}", s.handleDeleteExam)
				r.Post("/{id}/doctors/{doctorId}", s.handleAssignDoctor)
				r.Delete("/{id}/doctors/{doctorId}", s.handleUnassignDoctor)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

// identityFrom reads the demo headers. At most one may be present; the ids
// are not verified here, each handler resolves them against the store.
func identityFrom(r *http.Request) (identity.Role, string, bool) {
	var role identity.Role
	var id string
	count := 0
	for _, candidate := range []identity.Role{identity.RolePatient, identity.RoleDoctor, identity.RoleAdmin} {
		if v := r.Header.Get(candidate.Header()); v != "" {
			role, id = candidate, v
			count++
		}
	}
	if count != 1 {
		return "", "", false
	}
	return role, id, true
}

// requireAdmin guards the admin subtree.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _, ok := identityFrom(r)
		if !ok {
			s.writeError(w, http.StatusUnauthorized, codeUnauthorized, "Identità richiesta.", "")
			return
		}
		if role != identity.RoleAdmin {
			s.writeError(w, http.StatusForbidden, codeForbidden, "Operazione riservata agli amministratori.", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message, details string) {
	s.writeJSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: message, Details: details},
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, codeValidation, "Corpo della richiesta non valido.", err.Error())
		return false
	}
	return true
}
