package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"wanderlust/internal/core"

	"github.com/golang-jwt/jwt/v4"
)

func testOptions(now time.Time) Options {
	return Options{
		Secret: []byte("test-secret"),
		Issuer: "wanderlust",
		TTL:    time.Hour,
		Now:    func() time.Time { return now },
	}
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	opts := testOptions(now)
	snapshot := core.IdentitySnapshot{
		ID:                    "65a000000000000000000001",
		Name:                  "Asha",
		Email:                 "asha@example.com",
		Role:                  core.RoleUser,
		ProfileComplete:       true,
		HasCredentialPassword: true,
		Phone:                 "+919800000000",
		Address:               &core.Address{City: "Pune"},
	}

	token, issued, err := Issue(snapshot, opts)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.ID == "" {
		t.Fatal("expected jti to be set")
	}

	claims, err := Decode(token, opts)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := claims.Snapshot()
	if got.ID != snapshot.ID || got.Email != snapshot.Email || got.Role != snapshot.Role {
		t.Fatalf("snapshot mismatch: %+v", got)
	}
	if !got.ProfileComplete || !got.HasCredentialPassword {
		t.Fatalf("flags not carried: %+v", got)
	}
	if got.Address == nil || got.Address.City != "Pune" {
		t.Fatalf("address not carried: %+v", got.Address)
	}
	if claims.Subject != snapshot.ID || claims.Issuer != "wanderlust" {
		t.Fatalf("registered claims mismatch: %+v", claims.RegisteredClaims)
	}
	if strings.Contains(token, "password") {
		t.Fatal("token must not reference password data")
	}
}

func TestDecodeRejects(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	opts := testOptions(now)
	token, _, err := Issue(core.IdentitySnapshot{ID: "abc", Email: "a@b.co", Role: core.RoleUser}, opts)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expired := testOptions(now.Add(2 * time.Hour))
	otherKey := testOptions(now)
	otherKey.Secret = []byte("other")
	otherIssuer := testOptions(now)
	otherIssuer.Issuer = "someone-else"

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &core.SessionClaims{IdentityID: "abc"})
	noneToken, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
		opts  Options
	}{
		{"expired", token, expired},
		{"wrong key", token, otherKey},
		{"wrong issuer", token, otherIssuer},
		{"garbage", "not-a-token", opts},
		{"tampered", token[:len(token)-2] + "xx", opts},
		{"alg none", noneToken, opts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.token, tt.opts); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestIssueRequiresSecretAndIdentity(t *testing.T) {
	opts := testOptions(time.Now())
	if _, _, err := Issue(core.IdentitySnapshot{}, opts); !errors.Is(err, ErrMissingIdent) {
		t.Fatalf("expected ErrMissingIdent, got %v", err)
	}
	opts.Secret = nil
	if _, _, err := Issue(core.IdentitySnapshot{ID: "x"}, opts); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	_, claims, err := Issue(core.IdentitySnapshot{ID: "abc"}, testOptions(now))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if got := Remaining(claims, now.Add(15*time.Minute)); got != 45*time.Minute {
		t.Fatalf("Remaining = %v", got)
	}
	if got := Remaining(nil, now); got != 0 {
		t.Fatalf("Remaining(nil) = %v", got)
	}
}
