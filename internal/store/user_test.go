package store

import (
	"testing"

	"treepress/internal/models"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	email := "auth-test@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := users.Create(email, "s3cret-password", "Auth Tester", models.RoleEditor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.PasswordHash == "s3cret-password" {
		t.Fatal("password stored in plaintext")
	}

	if !users.CheckPassword(u, "s3cret-password") {
		t.Error("correct password rejected")
	}
	if users.CheckPassword(u, "wrong-password") {
		t.Error("wrong password accepted")
	}
}

func TestUserFindByEmailMissing(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	u, err := users.FindByEmail("nobody@test.local")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u != nil {
		t.Error("missing email should return nil, nil")
	}
}

func TestUserTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	email := "totp-test@test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := users.Create(email, "password", "TOTP Tester", models.RoleAdmin)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !u.Needs2FASetup() {
		t.Error("new user should need 2FA setup")
	}

	if err := users.SetTOTPSecret(u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("set secret: %v", err)
	}
	if err := users.EnableTOTP(u.ID); err != nil {
		t.Fatalf("enable: %v", err)
	}

	after, err := users.FindByID(u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !after.TOTPEnabled || after.Needs2FASetup() {
		t.Error("2FA should be fully enabled")
	}

	if err := users.ResetTOTP(u.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	reset, err := users.FindByID(u.ID)
	if err != nil {
		t.Fatalf("find after reset: %v", err)
	}
	if reset.TOTPEnabled || !reset.Needs2FASetup() {
		t.Error("reset should force 2FA setup again")
	}
}
