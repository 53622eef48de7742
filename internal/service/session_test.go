package service

import (
	"context"
	"net/http"
	"testing"

	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	cErr "wanderlust/internal/pkg/error"

	"go.uber.org/zap"
)

func newTestSessionService(t *testing.T, store *fakeIdentityStore, revocations *fakeRevocationStore) *SessionService {
	t.Helper()
	svc, err := NewSessionService(zap.NewNop(), testTrace(), nil, testConfig(), revocations, store)
	if err != nil {
		t.Fatalf("new session service: %v", err)
	}
	return svc
}

func TestNewSessionService_RequiresSecret(t *testing.T) {
	conf := testConfig()
	conf.Auth.SessionSecret = ""
	if _, err := NewSessionService(zap.NewNop(), testTrace(), nil, conf, newFakeRevocationStore(), newFakeIdentityStore()); err != ErrSessionSecretMissing {
		t.Fatalf("expected ErrSessionSecretMissing, got %v", err)
	}
}

func TestSessionService_IssueValidateRevoke(t *testing.T) {
	store := newFakeIdentityStore()
	revocations := newFakeRevocationStore()
	svc := newTestSessionService(t, store, revocations)
	ctx := context.Background()

	identity := seedCredentialIdentity(t, store, "s@example.com", "correct-horse")
	issued, err := svc.Issue(ctx, identity.Snapshot())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.TokenType != "Bearer" || issued.Token == "" {
		t.Fatalf("unexpected session: %+v", issued)
	}

	claims, err := svc.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.IdentityID != identity.ID.Hex() || claims.Email != "s@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if err := svc.Revoke(ctx, claims); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	_, err = svc.Validate(ctx, issued.Token)
	if e := asError(err); e == nil || e.ErrorCode() != cErr.INVALID_SESSION {
		t.Fatalf("expected invalid session after revoke, got %v", err)
	}
}

func TestSessionService_ValidateRejects(t *testing.T) {
	revocations := newFakeRevocationStore()
	svc := newTestSessionService(t, newFakeIdentityStore(), revocations)
	ctx := context.Background()

	_, err := svc.Validate(ctx, "")
	if e := asError(err); e == nil || e.ErrorCode() != cErr.UNAUTHORIZED {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
	_, err = svc.Validate(ctx, "not-a-token")
	if e := asError(err); e == nil || e.ErrorCode() != cErr.INVALID_SESSION {
		t.Fatalf("expected invalid session for garbage, got %v", err)
	}

	issued, err := svc.Issue(ctx, core.IdentitySnapshot{ID: "65f000000000000000000001", Email: "x@example.com", Role: core.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	revocations.err = errStoreDown
	_, err = svc.Validate(ctx, issued.Token)
	if e := asError(err); e == nil || e.HttpCode() != http.StatusServiceUnavailable {
		t.Fatalf("expected service unavailable when revocation store is down, got %v", err)
	}
}

// 換發以資料庫最新狀態為準，舊 token 會被撤銷
func TestSessionService_RefreshReflectsCurrentIdentity(t *testing.T) {
	store := newFakeIdentityStore()
	revocations := newFakeRevocationStore()
	svc := newTestSessionService(t, store, revocations)
	ctx := context.Background()

	identity := store.put(&model.Identity{
		Email: "refresh@example.com",
		ExternalIdentities: map[string]model.ExternalIdentity{
			string(core.ProviderGoogle): {ProviderAccountID: "g-1"},
		},
	})
	issued, err := svc.Issue(ctx, identity.Snapshot())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.Identity.ProfileComplete {
		t.Fatalf("expected incomplete profile before update")
	}
	claims, err := svc.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	identity.Name, identity.Phone = "Nila", "+919822222222"
	if _, err := store.Replace(ctx, identity); err != nil {
		t.Fatalf("replace: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, claims)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !refreshed.Identity.ProfileComplete || refreshed.Identity.Name != "Nila" {
		t.Fatalf("expected refreshed snapshot, got %+v", refreshed.Identity)
	}
	if _, ok := revocations.revoked[claims.ID]; !ok {
		t.Fatalf("expected previous jti to be revoked")
	}
	if _, err := svc.Validate(ctx, refreshed.Token); err != nil {
		t.Fatalf("new token should validate: %v", err)
	}
}

func TestSessionService_CookieMaxAge(t *testing.T) {
	svc := newTestSessionService(t, newFakeIdentityStore(), newFakeRevocationStore())
	if got := svc.CookieMaxAge(); got != 600 {
		t.Fatalf("expected 600, got %d", got)
	}
}
