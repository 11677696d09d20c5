package http

import (
	"errors"
	"io"
	"net/http"

	"numus/internal/adapters"
	"numus/internal/core"
	applog "numus/internal/log"
)

// handleAPIAddTransaction appends one transaction. A missing id is
// assigned from the current time in milliseconds.
func (s *Server) handleAPIAddTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := ParseTransaction(r.Body, core.DateOf(s.dashboard.Now()))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgInvalidRequest)
		return
	}
	tx, err = s.dashboard.AddTransaction(r.Context(), tx)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		writeJSONError(w, http.StatusUnprocessableEntity, MsgInvalidAmount)
		return
	case errors.Is(err, core.ErrInvalidType):
		writeJSONError(w, http.StatusUnprocessableEntity, MsgInvalidType)
		return
	case errors.Is(err, core.ErrInvalidDate):
		writeJSONError(w, http.StatusUnprocessableEntity, MsgInvalidDate)
		return
	case err != nil:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Transaction save failed",
			applog.FieldOperation, applog.OpAdd,
			applog.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, MsgSaveFailed)
		return
	}
	w.Header().Set("HX-Trigger", `{"`+EventDashboardRefresh+`":{}}`)
	writeJSON(w, http.StatusCreated, tx)
}

// handleAPIRecord loads or replaces one record. GET returns decoded
// records (the empty default for undecodable data); PUT validates the body
// decodes before storing it.
func (s *Server) handleAPIRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet, http.MethodPut); resp != nil {
		resp.Write(w)
		return
	}
	key, ok := adapters.KeyForName(r.PathValue("name"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, MsgUnknownRecord)
		return
	}
	records := s.dashboard.Records()
	ctx := r.Context()

	if r.Method == http.MethodGet {
		var (
			v   any
			err error
		)
		switch key {
		case adapters.KeyTransactions:
			v, err = records.LoadTransactions(ctx)
		case adapters.KeyGoals:
			v, err = records.LoadGoals(ctx)
		case adapters.KeyObjective:
			var text string
			text, err = records.LoadObjective(ctx)
			v = map[string]string{"objective": text}
		}
		if err != nil {
			applog.FromContext(ctx).ErrorContext(ctx, "Record load failed",
				applog.FieldRecordKey, key,
				applog.FieldError, err)
			writeJSONError(w, http.StatusInternalServerError, MsgLoadFailed)
			return
		}
		writeJSON(w, http.StatusOK, v)
		return
	}

	var err error
	switch key {
	case adapters.KeyTransactions:
		var txs []core.Transaction
		if err = decodeBody(r.Body, &txs); err == nil {
			err = records.SaveTransactions(ctx, txs)
		}
	case adapters.KeyGoals:
		var goals []core.Goal
		if err = decodeBody(r.Body, &goals); err == nil {
			err = records.SaveGoals(ctx, goals)
		}
	case adapters.KeyObjective:
		var body struct {
			Objective string `json:"objective"`
		}
		if err = decodeBody(r.Body, &body); err == nil {
			_, err = s.dashboard.SaveObjective(ctx, body.Objective)
		}
	}
	var decodeErr *bodyError
	switch {
	case errors.As(err, &decodeErr):
		writeJSONError(w, http.StatusBadRequest, MsgInvalidRequest)
	case err != nil:
		applog.FromContext(ctx).ErrorContext(ctx, "Record save failed",
			applog.FieldRecordKey, key,
			applog.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, MsgSaveFailed)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAPIRefresh runs a full recompute and re-creates the charts,
// returning the fresh aggregates.
func (s *Server) handleAPIRefresh(w http.ResponseWriter, r *http.Request) {
	snap, view, err := s.buildDashboard(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Refresh failed", applog.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, MsgLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"objective":         snap.Objective,
		"totals":            view.Totals,
		"categories":        snap.Categories,
		"months":            snap.Months,
		"goals":             snap.Goals,
		"charts_destroyed":  s.surfaces.DestroyedCount(),
		"charts_live":       s.surfaces.Live(),
		"generated_at":      snap.GeneratedAt,
		"transaction_count": len(snap.Transactions),
	})
}

type bodyError struct{ err error }

func (e *bodyError) Error() string { return "decode body: " + e.err.Error() }
func (e *bodyError) Unwrap() error { return e.err }

func decodeBody(r io.Reader, dst any) error {
	if err := jsonDecoder(r).Decode(dst); err != nil {
		return &bodyError{err: err}
	}
	return nil
}
