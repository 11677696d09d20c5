package http

import (
	"net/http"

	applog "numus/internal/log"
	"numus/internal/services"
)

// Value of the key field sent when the input loses focus.
const keyBlur = "blur"

func (s *Server) currentObjective(w http.ResponseWriter, r *http.Request) (*services.ObjectiveEditor, bool) {
	text, err := s.dashboard.Records().LoadObjective(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Objective load failed", applog.FieldError, err)
		InternalServerError(MsgLoadFailed).Write(w)
		return nil, false
	}
	return services.NewObjectiveEditor(text), true
}

// handleObjective renders the Display state. Escape in the editor lands
// here, discarding the draft.
func (s *Server) handleObjective(w http.ResponseWriter, r *http.Request) {
	editor, ok := s.currentObjective(w, r)
	if !ok {
		return
	}
	s.execute(w, r, "objective", newObjectiveView(editor))
}

func (s *Server) handleObjectiveEdit(w http.ResponseWriter, r *http.Request) {
	editor, ok := s.currentObjective(w, r)
	if !ok {
		return
	}
	editor.Edit()
	s.execute(w, r, "objective", newObjectiveView(editor))
}

// handleObjectiveSave applies the key that ended editing: Enter and blur
// commit the trimmed draft, Escape discards it.
func (s *Server) handleObjectiveSave(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	editor, ok := s.currentObjective(w, r)
	if !ok {
		return
	}
	editor.Edit()
	editor.Input(sanitizeInput(r.Form.Get("objective")))

	var (
		value  string
		commit bool
	)
	switch key := r.Form.Get("key"); key {
	case keyBlur:
		value, commit = editor.Blur()
	case services.KeyEscape:
		value, commit = editor.HandleKey(key)
	default:
		value, commit = editor.HandleKey(services.KeyEnter)
	}

	if commit {
		if _, err := s.dashboard.SaveObjective(r.Context(), value); err != nil {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Objective save failed",
				applog.FieldOperation, applog.OpSave,
				applog.FieldError, err)
			InternalServerError(MsgSaveFailed).Write(w)
			return
		}
	}
	s.execute(w, r, "objective", newObjectiveView(editor))
}
