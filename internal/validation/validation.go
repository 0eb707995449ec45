package validation

import (
	"fmt"
	"regexp"
	"strings"

	"familyhub/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,19}$`)

// ValidationError represents a field-level validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidatePhone checks if a phone number is plausible
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ValidationError{Field: "phone", Message: "phone is required"}
	}
	if !phoneRegex.MatchString(phone) {
		return ValidationError{Field: "phone", Message: "invalid phone format"}
	}
	return nil
}

// ValidateAgeForRole checks that an applicant's age falls inside the
// bracket the account role declares. A mismatch is a hard error, never
// silently corrected.
func ValidateAgeForRole(age int, accountRole string) error {
	bracket := models.AccountRoleForAge(age)
	if bracket == "" {
		return ValidationError{Field: "age", Message: "age must be between 8 and 25"}
	}
	if bracket != accountRole {
		return ValidationError{
			Field:   "age",
			Message: fmt.Sprintf("age %d does not match account role %q", age, accountRole),
		}
	}
	return nil
}

// ValidateNotificationPreference checks a channel preference value
func ValidateNotificationPreference(pref string) error {
	switch pref {
	case models.NotifyEmail, models.NotifySMS, models.NotifyBoth, models.NotifyNone:
		return nil
	}
	return ValidationError{Field: "notificationPreference", Message: "must be one of email, sms, both, none"}
}
