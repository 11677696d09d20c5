// Package validation checks the account-creation and login forms. Every
// rule is evaluated on each call so all field errors show at once.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// Matches something@something.something with no whitespace.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Field names, shared with the form templates.
const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldConfirm       = "passwordConfirm"
	FieldLoginEmail    = "loginEmail"
	FieldLoginPassword = "loginPassword"
)

// Error messages shown under each field.
const (
	MsgNameRequired     = "Por favor informe seu nome."
	MsgInvalidEmail     = "Email inválido."
	MsgPasswordTooShort = "A senha precisa ter pelo menos 6 caracteres."
	MsgPasswordMismatch = "As senhas não coincidem."
	MsgInvalidPassword  = "Senha inválida."
)

// Confirmation notices for a submission that passed validation. No
// account is created and nobody is authenticated.
const (
	NoticeAccountCreated = "Conta criada (simulação): nenhum dado foi enviado ao servidor."
	NoticeLoggedIn       = "Login efetuado (simulação): nenhuma autenticação foi realizada."
)

// Result maps field names to their error message. An empty Result means
// the form may be submitted.
type Result map[string]string

// CanSubmit reports whether every rule passed.
func (r Result) CanSubmit() bool { return len(r) == 0 }

// Error returns the message for field, or "".
func (r Result) Error(field string) string { return r[field] }

// IsEmail applies the loose email pattern.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// SignupForm is the account-creation form.
type SignupForm struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

func (f SignupForm) Validate() Result {
	r := Result{}
	if strings.TrimSpace(f.Name) == "" {
		r[FieldName] = MsgNameRequired
	}
	if !IsEmail(f.Email) {
		r[FieldEmail] = MsgInvalidEmail
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		r[FieldPassword] = MsgPasswordTooShort
	}
	if f.Password != f.PasswordConfirm {
		r[FieldConfirm] = MsgPasswordMismatch
	}
	return r
}

// LoginForm is the login form.
type LoginForm struct {
	Email    string
	Password string
}

func (f LoginForm) Validate() Result {
	r := Result{}
	if !IsEmail(f.Email) {
		r[FieldLoginEmail] = MsgInvalidEmail
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		r[FieldLoginPassword] = MsgInvalidPassword
	}
	return r
}
