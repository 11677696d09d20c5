package validation

import "testing"

func TestIsEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"nome.sobrenome@empresa.com.br", true},
		{"foo@bar", false},
		{"@b.com", false},
		{"a@.com", false},
		{"", false},
		{"a b@c.d", true}, // the pattern is not anchored
	}
	for _, tc := range cases {
		if got := IsEmail(tc.in); got != tc.want {
			t.Errorf("IsEmail(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSignupForm(t *testing.T) {
	valid := SignupForm{Name: "Ana", Email: "a@b.com", Password: "abcdef", PasswordConfirm: "abcdef"}

	cases := []struct {
		name   string
		mutate func(*SignupForm)
		field  string
		msg    string
	}{
		{"blank name", func(f *SignupForm) { f.Name = "   " }, FieldName, MsgNameRequired},
		{"bad email", func(f *SignupForm) { f.Email = "foo@bar" }, FieldEmail, MsgInvalidEmail},
		{"short password", func(f *SignupForm) { f.Password, f.PasswordConfirm = "abc", "abc" }, FieldPassword, MsgPasswordTooShort},
		{"mismatch", func(f *SignupForm) { f.PasswordConfirm = "abcxyz" }, FieldConfirm, MsgPasswordMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := valid
			tc.mutate(&f)
			r := f.Validate()
			if r.CanSubmit() {
				t.Fatalf("expected submit to be disabled")
			}
			if r.Error(tc.field) != tc.msg {
				t.Fatalf("expected %q on %s, got %v", tc.msg, tc.field, r)
			}
			if len(r) != 1 {
				t.Fatalf("expected a single error, got %v", r)
			}
		})
	}

	if r := valid.Validate(); !r.CanSubmit() {
		t.Fatalf("valid form rejected: %v", r)
	}
}

func TestSignupFormReportsAllErrors(t *testing.T) {
	r := SignupForm{Password: "abc", PasswordConfirm: "abd"}.Validate()
	for _, field := range []string{FieldName, FieldEmail, FieldPassword, FieldConfirm} {
		if r.Error(field) == "" {
			t.Fatalf("expected error on %s, got %v", field, r)
		}
	}
}

func TestPasswordLengthCountsCharacters(t *testing.T) {
	r := LoginForm{Email: "a@b.com", Password: "çãéíóú"}.Validate()
	if !r.CanSubmit() {
		t.Fatalf("six accented characters should pass, got %v", r)
	}
}

func TestLoginForm(t *testing.T) {
	r := LoginForm{Email: "a@b.com", Password: "12345"}.Validate()
	if r.CanSubmit() || r.Error(FieldLoginPassword) != MsgInvalidPassword {
		t.Fatalf("expected password error, got %v", r)
	}
	r = LoginForm{Email: "a@b", Password: "123456"}.Validate()
	if r.Error(FieldLoginEmail) != MsgInvalidEmail {
		t.Fatalf("expected email error, got %v", r)
	}
	if r := (LoginForm{Email: "a@b.com", Password: "123456"}).Validate(); !r.CanSubmit() {
		t.Fatalf("valid login rejected: %v", r)
	}
}
