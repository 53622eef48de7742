package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"wanderlust/internal/core"
	"wanderlust/internal/database/mongodb/model"
	"wanderlust/internal/dto"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/utils/password"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedCredentialIdentity(t *testing.T, store *fakeIdentityStore, email, plain string) *model.Identity {
	t.Helper()
	hash, err := password.Hash(plain, password.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return store.put(&model.Identity{Name: "Asha Rao", Email: email, PasswordHash: hash, Phone: "+919812345678"})
}

func TestAuthenticate_Success(t *testing.T) {
	store := newFakeIdentityStore()
	seeded := seedCredentialIdentity(t, store, "asha@example.com", "correct-horse")
	svc, sink := newTestAuthService(store, nil)

	snapshot, err := svc.Authenticate(context.Background(), "  ASHA@example.com ", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.ID != seeded.ID.Hex() || snapshot.Email != "asha@example.com" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	if !snapshot.HasCredentialPassword {
		t.Fatalf("expected hasCredentialPassword")
	}
	stored, _ := store.GetByID(context.Background(), seeded.ID)
	if stored.LastLoginAt == nil {
		t.Fatalf("expected lastLoginAt to be persisted")
	}
	if got := sink.last(); got.Event != authEventSignIn || got.Outcome != outcomeSuccess {
		t.Fatalf("unexpected auth event: %+v", got)
	}
}

// 三種失敗原因對外必須完全一致，內部事件仍保留真正原因
func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	store := newFakeIdentityStore()
	seedCredentialIdentity(t, store, "asha@example.com", "correct-horse")
	store.put(&model.Identity{
		Name:  "Ravi",
		Email: "ravi@example.com",
		ExternalIdentities: map[string]model.ExternalIdentity{
			string(core.ProviderGoogle): {ProviderAccountID: "g-1"},
		},
	})
	svc, sink := newTestAuthService(store, nil)

	cases := []struct {
		name     string
		email    string
		password string
		reason   string
	}{
		{"unknown email", "nobody@example.com", "whatever-pass", "identity_not_found"},
		{"no password set", "ravi@example.com", "whatever-pass", "no_password_set"},
		{"wrong password", "asha@example.com", "wrong-horse", "password_mismatch"},
	}

	var first *cErr.Error
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tc.email, tc.password)
			e := asError(err)
			if e == nil {
				t.Fatalf("expected *Error, got %v", err)
			}
			if e.HttpCode() != http.StatusUnauthorized || e.ErrorCode() != cErr.AUTH_FAILED {
				t.Fatalf("unexpected error: %d %d", e.HttpCode(), e.ErrorCode())
			}
			if first == nil {
				first = e
			} else if e.Error() != first.Error() || e.ErrorDesc() != first.ErrorDesc() {
				t.Fatalf("failure responses differ: %q/%q vs %q/%q", e.Error(), e.ErrorDesc(), first.Error(), first.ErrorDesc())
			}
			if got := sink.last(); got.Reason != tc.reason || got.Outcome != outcomeFailure {
				t.Fatalf("expected reason %q in auth event, got %+v", tc.reason, got)
			}
		})
	}
}

func TestAuthenticate_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(newFakeIdentityStore(), nil)
	_, err := svc.Authenticate(context.Background(), " ", "")
	e := asError(err)
	if e == nil || e.ErrorCode() != cErr.VALIDATION_FAILED {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(e.Details()) != 2 {
		t.Fatalf("expected two field details, got %+v", e.Details())
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	store := newFakeIdentityStore()
	store.findErr = errStoreDown
	svc, _ := newTestAuthService(store, nil)
	_, err := svc.Authenticate(context.Background(), "asha@example.com", "correct-horse")
	if e := asError(err); e == nil || e.ErrorCode() != cErr.DATABASE_ERROR {
		t.Fatalf("expected database error, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	store := newFakeIdentityStore()
	svc, _ := newTestAuthService(store, nil)
	ctx := context.Background()

	created, err := svc.Register(ctx, &dto.RegisterDto{Name: "Meera", Email: "Meera@Example.com", Password: "long-enough", Phone: "+919800000000"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Email != "meera@example.com" || created.Role != core.RoleUser || !created.ProfileComplete {
		t.Fatalf("unexpected identity: %+v", created)
	}
	if created.PasswordHash == "long-enough" || created.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}

	_, err = svc.Register(ctx, &dto.RegisterDto{Name: "Meera", Email: "meera@example.com", Password: "long-enough"})
	if e := asError(err); e == nil || e.ErrorCode() != cErr.DUPLICATE_EMAIL {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	_, err = svc.Register(ctx, &dto.RegisterDto{Name: "Root", Email: "root@example.com", Password: "long-enough", Role: core.RoleAdmin})
	if e := asError(err); e == nil || e.HttpCode() != http.StatusForbidden {
		t.Fatalf("expected forbidden for admin self-assignment, got %v", err)
	}
}

// 既有帳密帳號以 Google 登入：附加連結，密碼與角色不變
func TestLinkExternal_ExistingCredentialIdentity(t *testing.T) {
	store := newFakeIdentityStore()
	seeded := seedCredentialIdentity(t, store, "asha@example.com", "correct-horse")
	seeded.Role = core.RoleOwner
	store.byID[seeded.ID] = clone(seeded)
	svc, _ := newTestAuthService(store, nil)

	snapshot, created, err := svc.LinkExternal(context.Background(), core.ProviderGoogle, "g-123", "Asha@Example.com")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if created {
		t.Fatalf("expected existing identity to be linked, not created")
	}
	if snapshot.ID != seeded.ID.Hex() || snapshot.Role != core.RoleOwner || !snapshot.HasCredentialPassword {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	stored, _ := store.GetByID(context.Background(), seeded.ID)
	if stored.PasswordHash != seeded.PasswordHash {
		t.Fatalf("password hash must not change")
	}
	if stored.ExternalIdentities[string(core.ProviderGoogle)].ProviderAccountID != "g-123" || !stored.EmailVerified {
		t.Fatalf("expected google link to be stored: %+v", stored.ExternalIdentities)
	}
}

// 新 email 以 Google 登入：建立未完成個人資料的一般使用者
func TestLinkExternal_CreatesIdentity(t *testing.T) {
	store := newFakeIdentityStore()
	svc, _ := newTestAuthService(store, nil)

	snapshot, created, err := svc.LinkExternal(context.Background(), core.ProviderGoogle, "g-777", "new@example.com")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if !created {
		t.Fatalf("expected a new identity")
	}
	if snapshot.Role != core.RoleUser || snapshot.ProfileComplete || snapshot.HasCredentialPassword {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	identity, _ := store.FindByEmail(context.Background(), "new@example.com")
	if len(identity.ExternalIdentities) != 1 || identity.LastLoginAt == nil {
		t.Fatalf("unexpected stored identity: %+v", identity)
	}
}

func TestLinkExternal_Idempotent(t *testing.T) {
	store := newFakeIdentityStore()
	svc, _ := newTestAuthService(store, nil)
	ctx := context.Background()

	first, _, err := svc.LinkExternal(ctx, core.ProviderGoogle, "g-1", "repeat@example.com")
	if err != nil {
		t.Fatalf("first link: %v", err)
	}
	writes := store.writes
	second, created, err := svc.LinkExternal(ctx, core.ProviderGoogle, "g-1", "repeat@example.com")
	if err != nil {
		t.Fatalf("second link: %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("expected the same identity, got %+v", second)
	}
	if store.writes != writes {
		t.Fatalf("already linked identity must not be written again")
	}
}

func TestLinkExternal_AccountMismatch(t *testing.T) {
	store := newFakeIdentityStore()
	svc, _ := newTestAuthService(store, nil)
	ctx := context.Background()

	if _, _, err := svc.LinkExternal(ctx, core.ProviderGoogle, "g-1", "x@example.com"); err != nil {
		t.Fatalf("first link: %v", err)
	}
	_, _, err := svc.LinkExternal(ctx, core.ProviderGoogle, "g-2", "x@example.com")
	if e := asError(err); e == nil || e.ErrorCode() != cErr.LINK_FAILED {
		t.Fatalf("expected link failure, got %v", err)
	}
}

// racingIdentityStore 第一次 Create 前先寫入同 email 的身分，模擬並發建立
type racingIdentityStore struct {
	*fakeIdentityStore
	racer *model.Identity
	raced int
}

func (r *racingIdentityStore) Create(ctx context.Context, identity *model.Identity) (*model.Identity, error) {
	if r.raced == 0 {
		r.raced++
		r.fakeIdentityStore.mu.Lock()
		r.fakeIdentityStore.put(r.racer)
		r.fakeIdentityStore.mu.Unlock()
	}
	return r.fakeIdentityStore.Create(ctx, identity)
}

// 建立時撞到唯一索引：第二次改走連結既有身分
func TestLinkExternal_DuplicateKeyRetriesAsLookup(t *testing.T) {
	hash, err := password.Hash("correct-horse", password.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	racer := &model.Identity{ID: primitive.NewObjectID(), Name: "Racer", Email: "race@example.com", PasswordHash: hash}
	store := &racingIdentityStore{fakeIdentityStore: newFakeIdentityStore(), racer: racer}
	svc, _ := newTestAuthService(store.fakeIdentityStore, nil)
	svc.identities = store

	snapshot, created, err := svc.LinkExternal(context.Background(), core.ProviderGoogle, "g-race", "race@example.com")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if created || snapshot.ID != racer.ID.Hex() {
		t.Fatalf("expected to link the concurrently created identity, got %+v created=%v", snapshot, created)
	}
	if !snapshot.HasCredentialPassword {
		t.Fatalf("existing password must be kept")
	}
}

func TestLinkExternal_StorageFailure(t *testing.T) {
	store := newFakeIdentityStore()
	store.createErrs = []error{errStoreDown}
	svc, _ := newTestAuthService(store, nil)

	_, _, err := svc.LinkExternal(context.Background(), core.ProviderGoogle, "g-1", "down@example.com")
	if e := asError(err); e == nil || e.ErrorCode() != cErr.LINK_FAILED || e.HttpCode() != http.StatusInternalServerError {
		t.Fatalf("expected link failure, got %v", err)
	}
}

func TestSignInExternal(t *testing.T) {
	store := newFakeIdentityStore()
	verifier := stubVerifier{assertion: &ExternalAssertion{Provider: core.ProviderGoogle, AccountID: "g-9", Email: "g@example.com"}}
	svc, _ := newTestAuthService(store, verifier)
	ctx := context.Background()

	snapshot, err := svc.SignInExternal(ctx, core.ProviderGoogle, "id-token")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if snapshot.Email != "g@example.com" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	_, err = svc.SignInExternal(ctx, core.ExternalProvider("github"), "id-token")
	if e := asError(err); e == nil || e.HttpCode() != http.StatusBadRequest {
		t.Fatalf("expected bad request for unknown provider, got %v", err)
	}

	rejecting, _ := newTestAuthService(store, stubVerifier{err: errors.New("bad audience")})
	_, err = rejecting.SignInExternal(ctx, core.ProviderGoogle, "id-token")
	if e := asError(err); e == nil || e.ErrorCode() != cErr.AUTH_FAILED {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

// 外部登入帳號補設密碼後即可以帳密登入
func TestSetPassword(t *testing.T) {
	store := newFakeIdentityStore()
	svc, _ := newTestAuthService(store, nil)
	ctx := context.Background()

	actor, _, err := svc.LinkExternal(ctx, core.ProviderGoogle, "g-1", "pw@example.com")
	if err != nil {
		t.Fatalf("link: %v", err)
	}

	_, err = svc.SetPassword(ctx, actor, &dto.SetPasswordDto{Email: "someone-else@example.com", Password: "new-password"})
	if e := asError(err); e == nil || e.HttpCode() != http.StatusForbidden {
		t.Fatalf("expected forbidden for email mismatch, got %v", err)
	}

	updated, err := svc.SetPassword(ctx, actor, &dto.SetPasswordDto{Email: "PW@example.com", Password: "new-password"})
	if err != nil {
		t.Fatalf("set password: %v", err)
	}
	if !updated.HasCredentialPassword {
		t.Fatalf("expected hasCredentialPassword after set")
	}
	if _, err := svc.Authenticate(ctx, "pw@example.com", "new-password"); err != nil {
		t.Fatalf("expected credential sign-in to work: %v", err)
	}

	_, err = svc.SetPassword(ctx, updated, &dto.SetPasswordDto{Email: "pw@example.com", Password: "other-password"})
	if e := asError(err); e == nil || e.HttpCode() != http.StatusConflict {
		t.Fatalf("expected conflict when a password exists, got %v", err)
	}
}

func TestUpdateProfile_RecomputesCompletion(t *testing.T) {
	store := newFakeIdentityStore()
	svc, _ := newTestAuthService(store, nil)
	ctx := context.Background()

	actor, _, err := svc.LinkExternal(ctx, core.ProviderGoogle, "g-1", "profile@example.com")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	name, phone := "Kiran", "+919811111111"
	updated, err := svc.UpdateProfile(ctx, actor, &dto.UpdateProfileDto{Name: &name, Phone: &phone})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if !updated.ProfileComplete {
		t.Fatalf("expected profile to be complete")
	}

	blank := "   "
	updated, err = svc.UpdateProfile(ctx, actor, &dto.UpdateProfileDto{Phone: &blank})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.ProfileComplete {
		t.Fatalf("whitespace phone must count as empty")
	}
}

func TestSeedAdmin_CreatesAdmin(t *testing.T) {
	store := newFakeIdentityStore()
	svc, _ := newTestAuthService(store, nil)

	identity, created, err := svc.SeedAdmin(context.Background(), &dto.RegisterDto{Name: "Ops", Email: "Ops@Example.com", Password: "long-enough"})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if !created || identity.Role != core.RoleAdmin || identity.Email != "ops@example.com" {
		t.Fatalf("unexpected identity: created=%v %+v", created, identity)
	}
	if _, err := svc.Authenticate(context.Background(), "ops@example.com", "long-enough"); err != nil {
		t.Errorf("seeded admin should sign in: %v", err)
	}
}

func TestSeedAdmin_PromotesExistingWithoutTouchingPassword(t *testing.T) {
	store := newFakeIdentityStore()
	seeded := seedCredentialIdentity(t, store, "asha@example.com", "correct-horse")
	svc, _ := newTestAuthService(store, nil)

	identity, created, err := svc.SeedAdmin(context.Background(), &dto.RegisterDto{Name: "Asha Rao", Email: "asha@example.com", Password: "another-password"})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if created || identity.ID != seeded.ID || identity.Role != core.RoleAdmin {
		t.Fatalf("expected promotion of the existing identity, got created=%v %+v", created, identity)
	}
	if _, err := svc.Authenticate(context.Background(), "asha@example.com", "correct-horse"); err != nil {
		t.Errorf("original password must keep working: %v", err)
	}
}

func TestSeedAdmin_Validates(t *testing.T) {
	store := newFakeIdentityStore()
	svc, _ := newTestAuthService(store, nil)

	_, _, err := svc.SeedAdmin(context.Background(), &dto.RegisterDto{Name: "Ops", Email: "not-an-email", Password: "short"})
	if appErr := asError(err); appErr == nil || appErr.ErrorCode() != cErr.VALIDATION_FAILED {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if store.writes != 0 {
		t.Errorf("nothing should be written")
	}
}
