package services

import (
	"errors"
	"time"

	"numus/internal/core"
)

// ModalState is the state of the goal creation modal.
type ModalState int

const (
	Closed ModalState = iota
	Open
)

// MsgGoalNameRequired is the notice shown when saving without a name.
const MsgGoalNameRequired = "Nome da meta é obrigatório"

// GoalModal is the Closed/Open state machine of the goal creation form.
type GoalModal struct {
	State    ModalState
	Name     string
	Target   string
	Category string
	Error    string
}

// OpenModal clears every field and opens the modal.
func (m *GoalModal) OpenModal() {
	*m = GoalModal{State: Open}
}

// Close discards the form. Cancel and a click on the backdrop both end here.
func (m *GoalModal) Close() {
	*m = GoalModal{State: Closed}
}

// BackdropClick closes the modal only when the click landed on the
// backdrop itself and not inside the dialog content.
func (m *GoalModal) BackdropClick(onBackdrop bool) {
	if onBackdrop {
		m.Close()
	}
}

// Submit validates the form. On success the modal closes and the goal is
// returned for persisting; on failure it stays open with Error set.
func (m *GoalModal) Submit(now time.Time) (core.Goal, error) {
	if m.State != Open {
		return core.Goal{}, errors.New("goal modal is not open")
	}
	g, err := core.NewGoal(m.Name, core.ParseTarget(m.Target), m.Category, now)
	if err != nil {
		if errors.Is(err, core.ErrEmptyGoalName) {
			m.Error = MsgGoalNameRequired
		} else {
			m.Error = err.Error()
		}
		return core.Goal{}, err
	}
	m.Close()
	return g, nil
}
