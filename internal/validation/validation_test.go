package validation

import (
	"testing"

	"familyhub/internal/models"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
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
		{
			name:     "valid password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "exactly 8 characters",
			password: "12345678",
			wantErr:  false,
		},
		{
			name:     "too short",
			password: "1234567",
			wantErr:  true,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
		},
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

func TestValidateAgeForRole(t *testing.T) {
	tests := []struct {
		name        string
		age         int
		accountRole string
		wantErr     bool
	}{
		{
			name:        "child in bracket",
			age:         10,
			accountRole: models.AccountRoleChild,
			wantErr:     false,
		},
		{
			name:        "teen in bracket",
			age:         15,
			accountRole: models.AccountRoleTeen,
			wantErr:     false,
		},
		{
			name:        "young adult in bracket",
			age:         20,
			accountRole: models.AccountRoleYoungAdult,
			wantErr:     false,
		},
		{
			name:        "child age with teen role",
			age:         10,
			accountRole: models.AccountRoleTeen,
			wantErr:     true,
		},
		{
			name:        "teen age with child role",
			age:         14,
			accountRole: models.AccountRoleChild,
			wantErr:     true,
		},
		{
			name:        "age below all brackets",
			age:         6,
			accountRole: models.AccountRoleChild,
			wantErr:     true,
		},
		{
			name:        "age above all brackets",
			age:         30,
			accountRole: models.AccountRoleYoungAdult,
			wantErr:     true,
		},
		{
			name:        "bracket boundary 12 is child",
			age:         12,
			accountRole: models.AccountRoleChild,
			wantErr:     false,
		},
		{
			name:        "bracket boundary 13 is teen",
			age:         13,
			accountRole: models.AccountRoleTeen,
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAgeForRole(tt.age, tt.accountRole)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAgeForRole(%d, %q) error = %v, wantErr %v", tt.age, tt.accountRole, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNotificationPreference(t *testing.T) {
	tests := []struct {
		name    string
		pref    string
		wantErr bool
	}{
		{name: "email", pref: "email", wantErr: false},
		{name: "sms", pref: "sms", wantErr: false},
		{name: "both", pref: "both", wantErr: false},
		{name: "none", pref: "none", wantErr: false},
		{name: "unknown value", pref: "pigeon", wantErr: true},
		{name: "empty", pref: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotificationPreference(tt.pref)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNotificationPreference(%q) error = %v, wantErr %v", tt.pref, err, tt.wantErr)
			}
		})
	}
}
