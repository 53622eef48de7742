package model

import (
	"errors"
	"testing"
	"time"

	"wanderlust/internal/core"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIdentityBeforeSave(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name         string
		identity     Identity
		wantComplete bool
		wantErr      error
	}{
		{
			name:         "password with phone is complete",
			identity:     Identity{Name: " Ana ", Email: " Ana@Example.COM ", Phone: "+6281234", PasswordHash: "h"},
			wantComplete: true,
		},
		{
			name:     "whitespace phone is incomplete",
			identity: Identity{Name: "Ana", Email: "ana@example.com", Phone: "   ", PasswordHash: "h"},
		},
		{
			name: "external only without phone",
			identity: Identity{Name: "Ana", Email: "ana@example.com", ExternalIdentities: map[string]ExternalIdentity{
				"google": {ProviderAccountID: "g-1"},
			}},
		},
		{
			name:     "no credential is rejected",
			identity: Identity{Name: "Ana", Email: "ana@example.com", Phone: "+6281234"},
			wantErr:  core.ErrNoCredential,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := tt.identity
			err := identity.BeforeSave(now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BeforeSave: %v", err)
			}
			if identity.ProfileComplete != tt.wantComplete {
				t.Fatalf("profileComplete = %v, want %v", identity.ProfileComplete, tt.wantComplete)
			}
			if identity.Email != NormalizeEmail(tt.identity.Email) {
				t.Fatalf("email not normalized: %q", identity.Email)
			}
			if identity.Role != core.RoleUser {
				t.Fatalf("role = %q, want default user", identity.Role)
			}
			if !identity.CreatedAt.Equal(now) || !identity.UpdatedAt.Equal(now) {
				t.Fatalf("timestamps not stamped: %v %v", identity.CreatedAt, identity.UpdatedAt)
			}
		})
	}
}

func TestIdentityBeforeSaveKeepsCreatedAt(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(48 * time.Hour)
	identity := Identity{Name: "Ana", Email: "ana@example.com", PasswordHash: "h", CreatedAt: created}

	if err := identity.BeforeSave(now); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	if !identity.CreatedAt.Equal(created) || !identity.UpdatedAt.Equal(now) {
		t.Fatalf("createdAt=%v updatedAt=%v", identity.CreatedAt, identity.UpdatedAt)
	}
}

func TestIdentityLinkExternal(t *testing.T) {
	now := time.Now()
	identity := Identity{Name: "Ana", Email: "ana@example.com", PasswordHash: "h"}

	changed, err := identity.LinkExternal(core.ExternalProvider("google"), "g-1", "Ana@Example.com", now)
	if err != nil || !changed {
		t.Fatalf("first link: changed=%v err=%v", changed, err)
	}
	if !identity.EmailVerified || identity.PasswordHash != "h" {
		t.Fatal("link should verify email and keep the password")
	}
	if got := identity.ExternalIdentities["google"].ProviderEmail; got != "ana@example.com" {
		t.Fatalf("provider email = %q", got)
	}

	changed, err = identity.LinkExternal(core.ExternalProvider("google"), "g-1", "ana@example.com", now)
	if err != nil || changed {
		t.Fatalf("relink same account: changed=%v err=%v", changed, err)
	}

	_, err = identity.LinkExternal(core.ExternalProvider("google"), "g-2", "ana@example.com", now)
	if !errors.Is(err, ErrExternalAccountMismatch) {
		t.Fatalf("err = %v, want ErrExternalAccountMismatch", err)
	}
}

func TestIdentitySetPassword(t *testing.T) {
	identity := Identity{Email: "ana@example.com", ExternalIdentities: map[string]ExternalIdentity{
		"google": {ProviderAccountID: "g-1"},
	}}
	if err := identity.SetPassword("hash-1"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !identity.HasPassword() || !identity.HasCredentialPassword {
		t.Fatal("password not recorded")
	}
	if err := identity.SetPassword("hash-2"); !errors.Is(err, core.ErrPasswordAlreadySet) {
		t.Fatalf("err = %v, want ErrPasswordAlreadySet", err)
	}
	if identity.PasswordHash != "hash-1" {
		t.Fatal("existing password must not be overwritten")
	}
}

func TestIdentitySnapshotOmitsHash(t *testing.T) {
	identity := Identity{ID: primitive.NewObjectID(), Name: "Ana", Email: "ana@example.com", PasswordHash: "secret-hash", Role: core.RoleAdmin}
	snapshot := identity.Snapshot()
	if snapshot.ID != identity.ID.Hex() || snapshot.Role != core.RoleAdmin || !snapshot.HasCredentialPassword {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestIdentityStateTransitions(t *testing.T) {
	now := time.Now().UTC()

	// 舊資料的 profileComplete 與來源欄位不一致時，以狀態轉移結果為準
	stale := Identity{Name: "Ann", Email: "ann@x.com", PasswordHash: "h", ProfileComplete: true}
	if err := stale.BeforeSave(now); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	if stale.ProfileComplete || stale.AccountState() != (core.AccountState{Credentials: core.CredentialPasswordOnly, Profile: core.ProfileIncomplete}) {
		t.Fatalf("unexpected state %+v", stale.AccountState())
	}

	fresh := Identity{Name: "Ann", Email: "ann@x.com"}
	if _, err := fresh.LinkExternal(core.ProviderGoogle, "g-1", "ann@x.com", now); err != nil {
		t.Fatalf("LinkExternal: %v", err)
	}
	if got := fresh.AccountState().Credentials; got != core.CredentialExternalOnly {
		t.Fatalf("credentials = %s, want external_only", got)
	}
	if err := fresh.SetPassword("hash"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	fresh.Phone = "+911234567890"
	if err := fresh.BeforeSave(now); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	want := core.AccountState{Credentials: core.CredentialBoth, Profile: core.ProfileComplete}
	if got := fresh.AccountState(); got != want {
		t.Fatalf("state = %+v, want %+v", got, want)
	}
}
