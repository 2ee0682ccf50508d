package identity

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "identity.json")
	s, err := NewStore(path, nil)
	require.NoError(t, err)
	return s
}

func TestSetActiveIsExclusive(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetActive(RolePatient, "patient-1"))
	require.NoError(t, s.SetActive(RoleDoctor, "doctor-2"))

	role, id, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, RoleDoctor, role)
	assert.Equal(t, "doctor-2", id)
	assert.Empty(t, s.Get(RolePatient))
	assert.Empty(t, s.Get(RoleAdmin))
}

func TestSetActiveEmptyClearsRole(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetActive(RoleAdmin, "admin-1"))
	require.NoError(t, s.SetActive(RoleAdmin, ""))
	assert.False(t, s.HasAny())
}

func TestStatePersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	s1, err := NewStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, s1.SetActive(RolePatient, "patient-9"))

	s2, err := NewStore(path, nil)
	require.NoError(t, err)
	role, id, ok := s2.Active()
	require.True(t, ok)
	assert.Equal(t, RolePatient, role)
	assert.Equal(t, "patient-9", id)
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetActive(RoleDoctor, "doctor-1"))
	require.NoError(t, s.ClearAll())
	assert.False(t, s.HasAny())
	_, _, ok := s.ActiveHeader()
	assert.False(t, ok)
}

func TestActiveHeader(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetActive(RolePatient, "patient-1"))
	name, value, ok := s.ActiveHeader()
	require.True(t, ok)
	assert.Equal(t, "X-Demo-Patient-Id", name)
	assert.Equal(t, "patient-1", value)
}

func TestSubscribeNotifiesWithRevision(t *testing.T) {
	s := newTestStore(t)

	var mu sync.Mutex
	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		got = append(got, snap)
		mu.Unlock()
	})

	require.NoError(t, s.SetActive(RolePatient, "patient-1"))
	require.NoError(t, s.ClearAll())
	unsubscribe()
	require.NoError(t, s.SetActive(RoleAdmin, "admin-1"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, RolePatient, got[0].Role)
	assert.Equal(t, uint64(1), got[0].Revision)
	assert.Equal(t, Role(""), got[1].Role)
	assert.Equal(t, uint64(2), got[1].Revision)
}

func TestWatchPicksUpExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	observer, err := NewStore(path, nil)
	require.NoError(t, err)
	writer, err := NewStore(path, nil)
	require.NoError(t, err)

	changed := make(chan Snapshot, 1)
	unsubscribe := observer.Subscribe(func(snap Snapshot) {
		select {
		case changed <- snap:
		default:
		}
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go observer.Watch(ctx, 10*time.Millisecond)

	require.NoError(t, writer.SetActive(RoleDoctor, "doctor-7"))

	select {
	case snap := <-changed:
		assert.Equal(t, RoleDoctor, snap.Role)
		assert.Equal(t, "doctor-7", snap.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not observe external identity change")
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"patient", "doctor", "admin"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}
	_, err := ParseRole("nurse")
	assert.Error(t, err)
}

func TestRoleHeaders(t *testing.T) {
	assert.Equal(t, "X-Demo-Patient-Id", RolePatient.Header())
	assert.Equal(t, "X-Demo-Doctor-Id", RoleDoctor.Header())
	assert.Equal(t, "X-Demo-Admin-Id", RoleAdmin.Header())
}
