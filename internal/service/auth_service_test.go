package service

import (
	"testing"
)

func TestRegisterAndLoginParent(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.auth.RegisterParent("Pat Smith", "pat@example.com", "password123", "Smith")
	if err != nil {
		t.Fatalf("RegisterParent() error = %v", err)
	}
	if res.Token == "" {
		t.Error("registration should issue a token")
	}
	if res.Parent.PasswordHash == "password123" {
		t.Error("password must be stored hashed")
	}

	// Duplicate email
	if _, err := env.auth.RegisterParent("Pat Smith", "pat@example.com", "password123", "Smith"); KindOf(err) != KindConflict {
		t.Errorf("duplicate register error kind = %v, want KindConflict", KindOf(err))
	}

	// Weak password
	if _, err := env.auth.RegisterParent("Jo", "jo@example.com", "short", "Jones"); KindOf(err) != KindValidation {
		t.Errorf("weak password error kind = %v, want KindValidation", KindOf(err))
	}

	if _, err := env.auth.LoginParent("pat@example.com", "password123"); err != nil {
		t.Errorf("LoginParent() error = %v", err)
	}
	if _, err := env.auth.LoginParent("pat@example.com", "wrongpass"); KindOf(err) != KindForbidden {
		t.Errorf("bad password error kind = %v, want KindForbidden", KindOf(err))
	}
	if _, err := env.auth.LoginParent("nobody@example.com", "password123"); KindOf(err) != KindForbidden {
		t.Errorf("unknown email error kind = %v, want KindForbidden", KindOf(err))
	}
}

func TestChangeParentPassword(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.auth.RegisterParent("Pat Smith", "pat@example.com", "password123", "Smith")
	if err != nil {
		t.Fatalf("RegisterParent() error = %v", err)
	}

	if err := env.auth.ChangeParentPassword(res.Parent.ID, "wrongpass", "newpassword1"); KindOf(err) != KindForbidden {
		t.Errorf("wrong current password error kind = %v, want KindForbidden", KindOf(err))
	}
	if err := env.auth.ChangeParentPassword(res.Parent.ID, "password123", "short"); KindOf(err) != KindValidation {
		t.Errorf("weak new password error kind = %v, want KindValidation", KindOf(err))
	}
	if err := env.auth.ChangeParentPassword(res.Parent.ID, "password123", "newpassword1"); err != nil {
		t.Fatalf("ChangeParentPassword() error = %v", err)
	}

	if _, err := env.auth.LoginParent("pat@example.com", "newpassword1"); err != nil {
		t.Errorf("login with new password error = %v", err)
	}
	if _, err := env.auth.LoginParent("pat@example.com", "password123"); KindOf(err) != KindForbidden {
		t.Errorf("login with old password error kind = %v, want KindForbidden", KindOf(err))
	}
}
