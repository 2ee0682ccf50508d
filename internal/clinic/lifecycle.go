package clinic

import "github.com/pegaso-health/clinicctl/internal/identity"

// Action is a lifecycle transition offered to the user. The client only gates
// which buttons appear; the backend decides whether a transition is legal and
// the view re-renders whatever state comes back.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
	ActionRevert   Action = "revert"
)

// TargetStatus is the status a single PATCH carries for this action.
func (a Action) TargetStatus() Status {
	switch a {
	case ActionConfirm:
		return StatusConfirmed
	case ActionCancel:
		return StatusCancelled
	case ActionComplete:
		return StatusCompleted
	case ActionRevert:
		return StatusPending
	}
	return ""
}

// Label renders the localized action name.
func (a Action) Label() string {
	switch a {
	case ActionConfirm:
		return "Conferma"
	case ActionCancel:
		return "Annulla"
	case ActionComplete:
		return "Completa"
	case ActionRevert:
		return "Riporta in attesa"
	}
	return string(a)
}

// OfferedActions returns the transitions a view may offer for an appointment
// in the given status, as seen by the given role:
//
//	pending:   confirm, cancel
//	confirmed: complete (doctor/admin), cancel, revert (doctor/admin)
//	completed: revert (doctor/admin), otherwise read-only
//	cancelled: read-only
func OfferedActions(status Status, viewer identity.Role) []Action {
	manages := viewer == identity.RoleDoctor || viewer == identity.RoleAdmin
	switch status {
	case StatusPending:
		return []Action{ActionConfirm, ActionCancel}
	case StatusConfirmed:
		actions := []Action{}
		if manages {
			actions = append(actions, ActionComplete)
		}
		actions = append(actions, ActionCancel)
		if manages {
			actions = append(actions, ActionRevert)
		}
		return actions
	case StatusCompleted:
		if manages {
			return []Action{ActionRevert}
		}
	}
	return nil
}
