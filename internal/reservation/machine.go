package reservation

import "github.com/nekogravitycat/studio-booking-backend/internal/pkg/apperror"

// Config drives the transition table.
type Config struct {
	// RequireEmailVerification adds the leading pending_verification state.
	RequireEmailVerification bool
}

// Machine is the reservation lifecycle. It is immutable after construction.
type Machine struct {
	cfg         Config
	transitions map[Status]map[Action]Status
}

func NewMachine(cfg Config) *Machine {
	t := map[Status]map[Action]Status{
		StatusPendingVerification: {
			ActionVerify: StatusPending,
			ActionCancel: StatusCancelled,
		},
		StatusPending: {
			ActionConfirm: StatusConfirmed,
			ActionReject:  StatusRejected,
			ActionCancel:  StatusCancelled,
		},
		StatusRejected: {
			ActionConfirm: StatusConfirmed,
		},
		StatusConfirmed: {
			ActionUndo:   StatusPending,
			ActionCancel: StatusCancelled,
		},
		StatusCancelled: {
			ActionReactivate: StatusConfirmed,
		},
	}
	if !cfg.RequireEmailVerification {
		// Requests left unverified from when the gate was on are treated as pending.
		t[StatusPendingVerification] = map[Action]Status{
			ActionConfirm: StatusConfirmed,
			ActionReject:  StatusRejected,
			ActionCancel:  StatusCancelled,
		}
	}
	return &Machine{cfg: cfg, transitions: t}
}

// RequiresVerification reports whether new requests must verify their e-mail first.
func (m *Machine) RequiresVerification() bool {
	return m.cfg.RequireEmailVerification
}

// Initial is the status of a newly created reservation.
func (m *Machine) Initial() Status {
	if m.cfg.RequireEmailVerification {
		return StatusPendingVerification
	}
	return StatusPending
}

// Can returns the target status of action from from, if allowed.
func (m *Machine) Can(from Status, action Action) (Status, bool) {
	to, ok := m.transitions[from][action]
	return to, ok
}

// Transition is Can reporting a disallowed action as ErrInvalidTransition.
func (m *Machine) Transition(from Status, action Action) (Status, error) {
	to, ok := m.Can(from, action)
	if !ok {
		return "", apperror.WithDetail(ErrInvalidTransition, "cannot %s a %s reservation", action, from)
	}
	return to, nil
}

// AllowedStatuses lists the statuses staff may filter and display under the current config.
func (m *Machine) AllowedStatuses() []Status {
	statuses := []Status{StatusPending, StatusConfirmed, StatusRejected, StatusCancelled}
	if m.cfg.RequireEmailVerification {
		return append([]Status{StatusPendingVerification}, statuses...)
	}
	return statuses
}

// Actions lists the actions available from status.
func (m *Machine) Actions(from Status) []Action {
	var actions []Action
	for _, a := range []Action{ActionVerify, ActionConfirm, ActionReject, ActionUndo, ActionCancel, ActionReactivate} {
		if _, ok := m.transitions[from][a]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionVerify, ActionConfirm, ActionReject, ActionUndo, ActionCancel, ActionReactivate:
		return a, nil
	}
	return "", ErrInvalidAction
}
