package service

import (
	"testing"

	"inkwell-backend/internal/models"
)

const testSecret = "test-secret"

func newTestAuthService() (*AuthService, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	return NewAuthService(userRepo, testSecret), userRepo
}

func register(t *testing.T, svc *AuthService, username, email string) *models.User {
	t.Helper()
	user, err := svc.Register(models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register %s: %v", username, err)
	}
	return user
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newTestAuthService()

	user := register(t, svc, "alice", "alice@example.com")

	stored, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Password == "correct horse battery" {
		t.Fatal("password stored in plain text")
	}
	if !VerifyPassword("correct horse battery", stored.Password) {
		t.Error("stored hash does not verify against the original password")
	}
	if VerifyPassword("wrong password", stored.Password) {
		t.Error("wrong password verified")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	register(t, svc, "alice", "alice@example.com")

	_, err := svc.Register(models.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "another password",
	})
	if !IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}

	_, err = svc.Register(models.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "another password",
	})
	if !IsConflict(err) {
		t.Fatalf("duplicate username err = %v, want conflict", err)
	}
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService()

	user := register(t, svc, "alice", "alice@example.com")

	token, loggedIn, err := svc.Login(models.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("logged in user = %d, want %d", loggedIn.ID, user.ID)
	}
	if loggedIn.LastSeen == nil {
		t.Error("LastSeen not recorded on login")
	}

	parsed, err := svc.ValidateToken(token)
	if err != nil || !parsed.Valid {
		t.Fatalf("ValidateToken: %v", err)
	}

	refreshed, refreshedUser, err := svc.RefreshToken(token)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed == "" || refreshedUser.ID != user.ID {
		t.Error("refresh did not return a token for the same user")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService()

	register(t, svc, "alice", "alice@example.com")

	if _, _, err := svc.Login(models.LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	}); !IsValidationError(err) {
		t.Fatalf("wrong password err = %v", err)
	}

	if _, _, err := svc.Login(models.LoginRequest{
		Email: "nobody@example.com", Password: "whatever",
	}); !IsValidationError(err) {
		t.Fatalf("unknown email err = %v", err)
	}
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	svc, _ := newTestAuthService()

	user := register(t, svc, "alice", "alice@example.com")
	if err := svc.SetUserActive(user.ID, false); err != nil {
		t.Fatalf("SetUserActive: %v", err)
	}

	if _, _, err := svc.Login(models.LoginRequest{
		Email: "alice@example.com", Password: "correct horse battery",
	}); !IsValidationError(err) {
		t.Fatalf("deactivated login err = %v", err)
	}
}

func TestUpdateProfileEmailChangeResetsConfirmation(t *testing.T) {
	svc, repo := newTestAuthService()

	user := register(t, svc, "alice", "alice@example.com")

	stored, _ := repo.FindByID(user.ID)
	stored.EmailConfirmed = true
	repo.Update(stored)

	newEmail := "alice@new.example.com"
	updated, err := svc.UpdateProfile(user.ID, models.UpdateProfileRequest{Email: &newEmail})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.EmailConfirmed {
		t.Error("email change must reset confirmation")
	}
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	svc, _ := newTestAuthService()

	register(t, svc, "alice", "alice@example.com")
	bob := register(t, svc, "bob", "bob@example.com")

	taken := "alice"
	if _, err := svc.UpdateProfile(bob.ID, models.UpdateProfileRequest{Username: &taken}); !IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestAuthService()

	user := register(t, svc, "alice", "alice@example.com")

	if err := svc.ChangePassword(user.ID, "wrong old", "new password!"); !IsValidationError(err) {
		t.Fatalf("wrong old password err = %v", err)
	}

	if err := svc.ChangePassword(user.ID, "correct horse battery", "new password!"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, _, err := svc.Login(models.LoginRequest{
		Email: "alice@example.com", Password: "new password!",
	}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
