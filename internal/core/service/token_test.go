package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer(testSecret, time.Hour)
	user := &domain.User{ID: "u1", Email: "ann@example.com", Role: domain.RoleCommittee}

	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "ann@example.com" || claims.Role != domain.RoleCommittee {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if time.Until(claims.ExpiresAt) > time.Hour || time.Until(claims.ExpiresAt) < 59*time.Minute {
		t.Fatalf("unexpected expiry: %v", claims.ExpiresAt)
	}
}

func TestJWTIssuer_Expired(t *testing.T) {
	issuer := NewJWTIssuer(testSecret, time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.Issue(&domain.User{ID: "u1", Role: domain.RoleResident})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Verify(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	token, err := NewJWTIssuer(testSecret, time.Hour).Issue(&domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other := NewJWTIssuer("another-secret-another-secret-xx", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"id": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewJWTIssuer(testSecret, time.Hour).Verify(unsigned); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg none, got %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewJWTIssuer(testSecret, time.Hour).Verify(hs512); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512, got %v", err)
	}
}

func TestJWTIssuer_Malformed(t *testing.T) {
	if _, err := NewJWTIssuer(testSecret, time.Hour).Verify("not.a.token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
