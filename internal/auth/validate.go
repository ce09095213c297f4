package auth

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var (
	phoneRe = regexp.MustCompile(`^[0-9+()\-\s]*$`)
	zipRe   = regexp.MustCompile(`^[0-9-]*$`)
)

const minPasswordLen = 6

// SignUpInput is the registration form.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zip_code"`
}

// ProfileInput is the editable part of a client profile.
type ProfileInput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Errors holds one message per invalid field.
type Errors struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	ZipCode  string `json:"zip_code,omitempty"`
}

// OK reports whether no field failed.
func (e Errors) OK() bool { return e == Errors{} }

// ValidationError carries the per-field messages of a rejected form.
type ValidationError struct{ Errors Errors }

func (e *ValidationError) Error() string { return fmt.Sprintf("auth: invalid input: %+v", e.Errors) }

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

// ValidateCredentials checks the sign-in form.
func ValidateCredentials(email, password string) Errors {
	var e Errors
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		e.Email = "Required"
	case !validEmail(email):
		e.Email = "Invalid email"
	}
	switch {
	case password == "":
		e.Password = "Required"
	case len(password) < minPasswordLen:
		e.Password = "Too short!"
	}
	return e
}

// ValidateProfile checks a profile edit.
func ValidateProfile(in ProfileInput) Errors {
	var e Errors
	if strings.TrimSpace(in.FullName) == "" {
		e.FullName = "Required"
	}
	if !phoneRe.MatchString(in.Phone) {
		e.Phone = "Invalid phone number"
	}
	return e
}

// ValidateSignUp checks the registration form.
func ValidateSignUp(in SignUpInput) Errors {
	e := ValidateCredentials(in.Email, in.Password)
	if strings.TrimSpace(in.FullName) == "" {
		e.FullName = "Required"
	}
	if !phoneRe.MatchString(in.Phone) {
		e.Phone = "Invalid phone number"
	}
	if !zipRe.MatchString(in.ZipCode) {
		e.ZipCode = "Invalid ZIP code"
	}
	return e
}
