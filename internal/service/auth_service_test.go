package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func issueIdentityToken(t *testing.T, subject string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
	}).SignedString([]byte("external-provider-secret"))
	if err != nil {
		t.Fatalf("failed to sign identity token: %v", err)
	}
	return token
}

func TestLogin_CreatesUserOnFirstLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour, quietLogger())

	result, err := svc.Login(context.Background(), issueIdentityToken(t, "privy-123"))
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.User.PrivyID != "privy-123" {
		t.Errorf("PrivyID = %s, want privy-123", result.User.PrivyID)
	}
	if result.Token == "" {
		t.Fatal("Login() returned empty token")
	}

	userID, err := svc.VerifyToken(result.Token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if userID != result.User.ID {
		t.Errorf("VerifyToken() = %s, want %s", userID, result.User.ID)
	}
}

func TestLogin_SameIdentityResolvesSameUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour, quietLogger())

	first, err := svc.Login(context.Background(), issueIdentityToken(t, "privy-123"))
	if err != nil {
		t.Fatalf("first Login() error = %v", err)
	}
	second, err := svc.Login(context.Background(), issueIdentityToken(t, "privy-123"))
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}

	if first.User.ID != second.User.ID {
		t.Errorf("repeated login produced different users: %s vs %s", first.User.ID, second.User.ID)
	}
}

func TestLogin_RejectsMalformedToken(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), "test-secret", time.Hour, quietLogger())

	if _, err := svc.Login(context.Background(), "not-a-jwt"); err == nil {
		t.Error("Login() error = nil, want unauthorized for malformed token")
	}
}

func TestVerifyToken_RejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(newMockUserRepo(), "secret-a", time.Hour, quietLogger())
	verifier := NewAuthService(newMockUserRepo(), "secret-b", time.Hour, quietLogger())

	result, err := issuer.Login(context.Background(), issueIdentityToken(t, "privy-123"))
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := verifier.VerifyToken(result.Token); err == nil {
		t.Error("VerifyToken() error = nil, want error for token signed with another secret")
	}
}

func TestVerifyToken_RejectsExpiredToken(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), "test-secret", -time.Hour, quietLogger())

	result, err := svc.Login(context.Background(), issueIdentityToken(t, "privy-123"))
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := svc.VerifyToken(result.Token); err == nil {
		t.Error("VerifyToken() error = nil, want error for expired token")
	}
}
