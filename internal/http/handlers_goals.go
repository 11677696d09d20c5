package http

import (
	"errors"
	"net/http"
	"strings"

	applog "numus/internal/log"
	"numus/internal/services"
)

func (s *Server) handleGoalModalOpen(w http.ResponseWriter, r *http.Request) {
	var modal services.GoalModal
	modal.OpenModal()
	s.execute(w, r, "goal_modal", modal)
}

// handleGoalModalClose handles cancel and clicks on the modal. With
// on=content the click landed inside the dialog and nothing changes.
func (s *Server) handleGoalModalClose(w http.ResponseWriter, r *http.Request) {
	modal := services.GoalModal{State: services.Open}
	switch r.URL.Query().Get("on") {
	case "backdrop":
		modal.BackdropClick(true)
	case "content":
		modal.BackdropClick(false)
	default:
		modal.Close()
	}
	if modal.State == services.Open {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	NewHTMXResponse().TriggerGoalModalClosed().BodyHTML("").Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(MsgInvalidRequest).Write(w)
		return
	}
	modal := services.GoalModal{
		State:    services.Open,
		Name:     p.Get("name"),
		Target:   p.Get("target"),
		Category: p.Get("category"),
	}

	goal, err := modal.Submit(s.dashboard.Now())
	if err != nil {
		s.executeWith(w, r,
			NewHTMXResponse().Status(http.StatusUnprocessableEntity).TriggerBlockingNotice(modal.Error),
			"goal_modal", modal)
		return
	}

	if err := s.dashboard.Records().AddGoal(r.Context(), goal); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Goal save failed",
			applog.FieldOperation, applog.OpSave,
			applog.FieldError, err)
		InternalServerError(MsgSaveFailed).Write(w)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Goal created",
		applog.FieldGoalID, goal.ID,
		applog.FieldCategory, goal.Category,
		applog.FieldAmountCents, goal.Target.Cents)

	NewHTMXResponse().
		TriggerGoalModalClosed().
		TriggerDashboardRefresh().
		BodyHTML("").
		Write(w)
}

// handleContribute records a contribution from the HX-Prompt answer. Empty,
// unparsable or non-positive answers are discarded with 204.
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseGoalID(r)
	if !ok {
		BadRequestError(MsgInvalidGoal).Write(w)
		return
	}

	amount := r.Header.Get("HX-Prompt")
	if amount == "" {
		if err := r.ParseForm(); err == nil {
			amount = r.Form.Get("amount")
		}
	}

	tx, ok, err := s.dashboard.ContributeToGoal(r.Context(), id, strings.TrimSpace(amount))
	switch {
	case errors.Is(err, services.ErrGoalNotFound):
		NotFoundError(MsgGoalNotFound).Write(w)
		return
	case err != nil:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Contribution failed",
			applog.FieldOperation, applog.OpContribute,
			applog.FieldGoalID, id,
			applog.FieldError, err)
		InternalServerError(MsgSaveFailed).Write(w)
		return
	case !ok:
		w.WriteHeader(http.StatusNoContent)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Contribution recorded",
		applog.FieldOperation, applog.OpContribute,
		applog.FieldGoalID, id,
		applog.FieldTxID, tx.ID,
		applog.FieldAmountCents, tx.Amount.Cents)
	NewHTMXResponse().
		TriggerDashboardRefresh().
		TriggerSuccessNotification("Aporte registrado: " + s.formatter.Currency(tx.Amount)).
		Write(w)
}
