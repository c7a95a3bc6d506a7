package session

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/sakif/droplog/internal/apperror"
)

// MinPasswordLength is the minimum accepted password length, matching the
// backend's policy so a too-short password never costs a round-trip.
const MinPasswordLength = 8

// emailPattern is deliberately loose; one @, something on both sides, a
// dot in the domain. The backend owns real address verification; this only
// catches obvious typos before they reach the network.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if !emailPattern.MatchString(email) {
		return apperror.ValidationFailed("email", "email address is not valid")
	}
	return nil
}

// ValidatePassword enforces the complexity policy: at least
// MinPasswordLength characters with an upper-case letter, a lower-case
// letter, a digit, and a special character.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return apperror.ValidationFailed("password",
			"password must contain upper and lower case letters, a digit, and a special character")
	}
	return nil
}

// SignUpInput is the registration form payload.
type SignUpInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// validateSignUp runs every client-side registration rule. The first
// failure wins; by contract none of these checks touch the network.
func validateSignUp(in SignUpInput) error {
	if strings.TrimSpace(in.FirstName) == "" {
		return apperror.ValidationFailed("firstName", "first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return apperror.ValidationFailed("lastName", "last name is required")
	}
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return apperror.ValidationFailed("confirmPassword", "passwords do not match")
	}
	return nil
}
