package clinic

import "fmt"

// Status is the appointment lifecycle state. Transitions form a DAG owned by
// the backend: pending→confirmed, confirmed→completed, pending/confirmed→
// cancelled, plus the administrative revert of confirmed/completed back to
// pending.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Statuses lists every lifecycle state in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Label renders the localized state name shown in lists.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "In attesa"
	case StatusConfirmed:
		return "Confermato"
	case StatusCompleted:
		return "Completato"
	case StatusCancelled:
		return "Annullato"
	}
	return string(s)
}

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
	return status, nil
}
