package token

import (
	"errors"
	"testing"
	"time"

	"wanderlist/internal/models"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	svc, err := NewService("super-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}

	user := &models.User{ID: 42, Role: models.RoleAdmin}
	tok, expiresAt, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if time.Until(expiresAt) < 55*time.Minute {
		t.Fatalf("expiry not honoring TTL: %v", expiresAt)
	}

	claims, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID error: %v", err)
	}
	if id != 42 || claims.Role != models.RoleAdmin {
		t.Fatalf("claims mismatch: got id=%d role=%q", id, claims.Role)
	}
}

func TestVerify_RoleSnapshottedAtIssuance(t *testing.T) {
	t.Parallel()

	svc, _ := NewService("secret", time.Hour)
	user := &models.User{ID: 7, Role: models.RoleUser}
	tok, _, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// A role change in the store must not affect an already-issued token.
	user.Role = models.RoleAdmin

	claims, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Role != models.RoleUser {
		t.Fatalf("expected role %q from issuance time, got %q", models.RoleUser, claims.Role)
	}
}

func TestVerify_ExpiredAndTamperedIndistinguishable(t *testing.T) {
	t.Parallel()

	svc, _ := NewService("secret", time.Hour)

	expiredSvc, _ := NewService("secret", time.Hour)
	expiredSvc.ttl = -time.Second
	expired, _, err := expiredSvc.Issue(&models.User{ID: 1, Role: models.RoleUser})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other, _ := NewService("other-secret", time.Hour)
	tampered, _, err := other.Issue(&models.User{ID: 1, Role: models.RoleUser})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, errExpired := svc.Verify(expired)
	_, errTampered := svc.Verify(tampered)

	if !errors.Is(errExpired, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", errExpired)
	}
	if !errors.Is(errTampered, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", errTampered)
	}
	if errExpired.Error() != errTampered.Error() {
		t.Fatalf("expiry and tampering must be indistinguishable: %v vs %v", errExpired, errTampered)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc, _ := NewService("k", time.Hour)
	if _, err := svc.Verify("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestNewService_NoSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewService("", time.Hour); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}
