package http

import (
	"net/http"

	"numus/internal/validation"
)

// formView feeds the account form templates: field errors and whether
// the submit control is enabled.
type formView struct {
	Errors    validation.Result
	CanSubmit bool
}

func newFormView(res validation.Result) formView {
	return formView{Errors: res, CanSubmit: res.CanSubmit()}
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	// Both forms start empty, so both start blocked.
	s.execute(w, r, "account.html", struct {
		Signup formView
		Login  formView
	}{
		Signup: formView{Errors: validation.Result{}},
		Login:  formView{Errors: validation.Result{}},
	})
}

func parseSignup(r *http.Request) (validation.SignupForm, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return validation.SignupForm{}, false
	}
	return validation.SignupForm{
		Name:            p.Get("name"),
		Email:           p.Get("email"),
		Password:        p.GetRaw("password"),
		PasswordConfirm: p.GetRaw("passwordConfirm"),
	}, true
}

func parseLogin(r *http.Request) (validation.LoginForm, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return validation.LoginForm{}, false
	}
	return validation.LoginForm{
		Email:    p.Get("loginEmail"),
		Password: p.GetRaw("loginPassword"),
	}, true
}

// handleSignupValidate runs on every input event and swaps field errors
// and the submit button out of band.
func (s *Server) handleSignupValidate(w http.ResponseWriter, r *http.Request) {
	form, ok := parseSignup(r)
	if !ok {
		BadRequestError(MsgInvalidRequest).Write(w)
		return
	}
	s.execute(w, r, "signup_feedback", newFormView(form.Validate()))
}

// handleSignup never reaches a backend: a valid form gets the simulated
// confirmation notice.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	form, ok := parseSignup(r)
	if !ok {
		BadRequestError(MsgInvalidRequest).Write(w)
		return
	}
	res := form.Validate()
	b := NewHTMXResponse()
	if res.CanSubmit() {
		b.TriggerBlockingNotice(validation.NoticeAccountCreated)
	} else {
		b.Status(http.StatusUnprocessableEntity)
	}
	s.executeWith(w, r, b, "signup_feedback", newFormView(res))
}

func (s *Server) handleLoginValidate(w http.ResponseWriter, r *http.Request) {
	form, ok := parseLogin(r)
	if !ok {
		BadRequestError(MsgInvalidRequest).Write(w)
		return
	}
	s.execute(w, r, "login_feedback", newFormView(form.Validate()))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form, ok := parseLogin(r)
	if !ok {
		BadRequestError(MsgInvalidRequest).Write(w)
		return
	}
	res := form.Validate()
	b := NewHTMXResponse()
	if res.CanSubmit() {
		b.TriggerBlockingNotice(validation.NoticeLoggedIn)
	} else {
		b.Status(http.StatusUnprocessableEntity)
	}
	s.executeWith(w, r, b, "login_feedback", newFormView(res))
}
