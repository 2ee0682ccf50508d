// Package identity manages the demo identity: a client-stored, unauthenticated
// role selector (patient/doctor/admin id) sent as a request header in lieu of
// real authentication. At most one role is active at a time.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pegaso-health/clinicctl/pkg/logging"
)

// Role identifies which demo actor a request runs as.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Header names the demo header carrying the id for this role.
func (r Role) Header() string {
	switch r {
	case RolePatient:
		return "X-Demo-Patient-Id"
	case RoleDoctor:
		return "X-Demo-Doctor-Id"
	case RoleAdmin:
		return "X-Demo-Admin-Id"
	}
	return ""
}

// ParseRole converts a user-supplied role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q (want patient, doctor or admin)", s)
}

// Snapshot is the state delivered to subscribers on every change.
// Role is empty when no identity is active.
type Snapshot struct {
	Role     Role
	ID       string
	Revision uint64
}

type state struct {
	PatientID string `json:"patientId,omitempty"`
	DoctorID  string `json:"doctorId,omitempty"`
	AdminID   string `json:"adminId,omitempty"`
}

func (st state) active() (Role, string, bool) {
	switch {
	case st.PatientID != "":
		return RolePatient, st.PatientID, true
	case st.DoctorID != "":
		return RoleDoctor, st.DoctorID, true
	case st.AdminID != "":
		return RoleAdmin, st.AdminID, true
	}
	return "", "", false
}

// Store persists the demo identity to a JSON file so it survives process
// restarts, and notifies subscribers on every mutation. Because another
// process may rewrite the file behind our back, Watch runs a low-frequency
// reconciliation poll in addition to in-process notifications; the two
// mechanisms are deliberately redundant.
type Store struct {
	path   string
	logger *logging.Logger

	mu      sync.Mutex
	st      state
	rev     uint64
	subs    map[int]func(Snapshot)
	nextSub int
}

// DefaultPath returns the identity file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("identity: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "clinicctl", "identity.json"), nil
}

// NewStore opens (or initializes) the store backed by the given file.
func NewStore(path string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Store{
		path:   path,
		logger: logger,
		subs:   make(map[int]func(Snapshot)),
	}
	st, err := readStateFile(path)
	if err != nil {
		return nil, err
	}
	s.st = st
	return s, nil
}

func readStateFile(path string) (state, error) {
	var st state
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("identity: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("identity: parse %s: %w", path, err)
	}
	return st, nil
}

// SetActive stores id for role and clears the other two roles; exactly one
// role may be active at a time. An empty id clears the role.
func (s *Store) SetActive(role Role, id string) error {
	if role.Header() == "" {
		return fmt.Errorf("identity: unknown role %q", role)
	}
	s.mu.Lock()
	next := state{}
	switch role {
	case RolePatient:
		next.PatientID = id
	case RoleDoctor:
		next.DoctorID = id
	case RoleAdmin:
		next.AdminID = id
	}
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.bumpLocked(next)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// ClearAll removes every stored id (logout).
func (s *Store) ClearAll() error {
	s.mu.Lock()
	next := state{}
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.bumpLocked(next)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Get returns the stored id for role, or empty when unset.
func (s *Store) Get(role Role) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch role {
	case RolePatient:
		return s.st.PatientID
	case RoleDoctor:
		return s.st.DoctorID
	case RoleAdmin:
		return s.st.AdminID
	}
	return ""
}

// Active returns the currently active role and id.
func (s *Store) Active() (Role, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.active()
}

// HasAny reports whether any role is set.
func (s *Store) HasAny() bool {
	_, _, ok := s.Active()
	return ok
}

// Revision returns the change counter; it increments on every mutation.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// ActiveHeader returns the demo header for the active role. It satisfies the
// api client's identity source: headers are resolved at call time, not cached.
func (s *Store) ActiveHeader() (name, value string, ok bool) {
	role, id, ok := s.Active()
	if !ok {
		return "", "", false
	}
	return role.Header(), id, true
}

// Subscribe registers fn for change notifications and returns an unsubscribe
// function. Consumers subscribe at mount and unsubscribe at teardown.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Watch reconciles the in-memory state against the backing file at the given
// interval until ctx is done, notifying subscribers when another process
// changed the identity. This is the fallback for mutations the in-process
// event path cannot see.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reconcile()
		}
	}
}

func (s *Store) reconcile() {
	st, err := readStateFile(s.path)
	if err != nil {
		s.logger.Warn("identity reconcile failed", "error", err)
		return
	}
	s.mu.Lock()
	if st == s.st {
		s.mu.Unlock()
		return
	}
	snap := s.bumpLocked(st)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

func (s *Store) persistLocked(st state) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("identity: create dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("identity: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("identity: write %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) bumpLocked(st state) Snapshot {
	s.st = st
	s.rev++
	role, id, _ := st.active()
	return Snapshot{Role: role, ID: id, Revision: s.rev}
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
