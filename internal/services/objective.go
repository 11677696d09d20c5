package services

import "strings"

// EditorState is the state of the in-place objective editor.
type EditorState int

const (
	Display EditorState = iota
	Editing
)

func (s EditorState) String() string {
	if s == Editing {
		return "editing"
	}
	return "display"
}

// ObjectivePlaceholder is shown in Display state when no objective is set.
const ObjectivePlaceholder = `Clique em "Editar objetivo" para definir`

// Keys understood by ObjectiveEditor.HandleKey.
const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
)

// ObjectiveEditor is the Display/Editing state machine for the objective.
// Enter or blur commits the trimmed draft; Escape discards it.
type ObjectiveEditor struct {
	state   EditorState
	current string
	draft   string
}

func NewObjectiveEditor(current string) *ObjectiveEditor {
	return &ObjectiveEditor{current: current}
}

func (e *ObjectiveEditor) State() EditorState { return e.state }

// Value is the committed objective.
func (e *ObjectiveEditor) Value() string { return e.current }

// Draft is the text in the input while editing.
func (e *ObjectiveEditor) Draft() string { return e.draft }

// DisplayText is the committed objective, or the placeholder when empty.
func (e *ObjectiveEditor) DisplayText() string {
	if e.current == "" {
		return ObjectivePlaceholder
	}
	return e.current
}

// Edit enters Editing with the input pre-filled with the current value.
func (e *ObjectiveEditor) Edit() {
	if e.state == Editing {
		return
	}
	e.state = Editing
	e.draft = e.current
}

// Input replaces the draft. Ignored outside Editing.
func (e *ObjectiveEditor) Input(text string) {
	if e.state == Editing {
		e.draft = text
	}
}

// Commit returns to Display with the trimmed draft as the new value.
// ok is false when the editor was not editing, so nothing must be saved.
func (e *ObjectiveEditor) Commit() (value string, ok bool) {
	if e.state != Editing {
		return e.current, false
	}
	e.current = strings.TrimSpace(e.draft)
	e.draft = ""
	e.state = Display
	return e.current, true
}

// Cancel returns to Display keeping the previous value.
func (e *ObjectiveEditor) Cancel() {
	e.draft = ""
	e.state = Display
}

// Blur commits, like Enter.
func (e *ObjectiveEditor) Blur() (string, bool) {
	return e.Commit()
}

// HandleKey applies Enter or Escape. Other keys do nothing.
func (e *ObjectiveEditor) HandleKey(key string) (value string, commit bool) {
	switch key {
	case KeyEnter:
		return e.Commit()
	case KeyEscape:
		e.Cancel()
	}
	return e.current, false
}
