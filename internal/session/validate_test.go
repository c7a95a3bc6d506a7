package session

import (
	"errors"
	"testing"

	"github.com/sakif/droplog/internal/apperror"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid address", email: "ada@example.com", wantErr: false},
		{name: "valid with subdomain", email: "ada@mail.example.co.uk", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "whitespace only", email: "   ", wantErr: true},
		{name: "missing at", email: "ada.example.com", wantErr: true},
		{name: "missing domain dot", email: "ada@example", wantErr: true},
		{name: "embedded space", email: "ada lovelace@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "meets every rule", password: "Str0ng!pass", wantErr: false},
		{name: "too short", password: "abc", wantErr: true},
		{name: "exactly 7 chars", password: "Ab1!def", wantErr: true},
		{name: "no upper case", password: "weak1!pass", wantErr: true},
		{name: "no lower case", password: "WEAK1!PASS", wantErr: true},
		{name: "no digit", password: "Weakest!pass", wantErr: true},
		{name: "no special char", password: "Weak1pass", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword_ShortPasswordMentionsLength(t *testing.T) {
	err := ValidatePassword("abc")
	if err == nil {
		t.Fatal("ValidatePassword(\"abc\") should error")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error is %T, want *apperror.AppError", err)
	}
	// The message must reference the policy so the form can display it.
	if appErr.Message != "password must be at least 8 characters" {
		t.Errorf("Message = %q, want the minimum-length message", appErr.Message)
	}
	if appErr.Field != "password" {
		t.Errorf("Field = %q, want %q", appErr.Field, "password")
	}
}

func TestValidateSignUp(t *testing.T) {
	valid := SignUpInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "Str0ng!pass",
		ConfirmPassword: "Str0ng!pass",
	}

	if err := validateSignUp(valid); err != nil {
		t.Fatalf("validateSignUp(valid) error = %v", err)
	}

	mutations := []struct {
		name   string
		mutate func(*SignUpInput)
		field  string
	}{
		{name: "missing first name", mutate: func(in *SignUpInput) { in.FirstName = " " }, field: "firstName"},
		{name: "missing last name", mutate: func(in *SignUpInput) { in.LastName = "" }, field: "lastName"},
		{name: "bad email", mutate: func(in *SignUpInput) { in.Email = "nope" }, field: "email"},
		{name: "weak password", mutate: func(in *SignUpInput) { in.Password = "short"; in.ConfirmPassword = "short" }, field: "password"},
		{name: "mismatched confirmation", mutate: func(in *SignUpInput) { in.ConfirmPassword = "Other1!pass" }, field: "confirmPassword"},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			err := validateSignUp(in)
			if err == nil {
				t.Fatal("validateSignUp() should error")
			}

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error is %T, want *apperror.AppError", err)
			}
			if appErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.field)
			}
		})
	}
}
