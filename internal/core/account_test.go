package core

import (
	"errors"
	"testing"
)

func TestProfileCompleteFor(t *testing.T) {
	tests := []struct {
		name  string
		input [3]string
		want  bool
	}{
		{"all present", [3]string{"Ann", "ann@x.com", "+911234567890"}, true},
		{"missing phone", [3]string{"Ann", "ann@x.com", ""}, false},
		{"missing name", [3]string{"", "ann@x.com", "+911234567890"}, false},
		{"missing email", [3]string{"Ann", "", "+911234567890"}, false},
		{"whitespace phone", [3]string{"Ann", "ann@x.com", "   "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProfileCompleteFor(tt.input[0], tt.input[1], tt.input[2])
			if got != tt.want {
				t.Errorf("ProfileCompleteFor(%q) = %v, want %v", tt.input, got, tt.want)
			}
			// 同樣輸入必須得到同樣結果
			if again := ProfileCompleteFor(tt.input[0], tt.input[1], tt.input[2]); again != got {
				t.Errorf("ProfileCompleteFor is not deterministic for %q", tt.input)
			}
		})
	}
}

func TestDeriveAccountState(t *testing.T) {
	tests := []struct {
		hasPassword bool
		links       int
		complete    bool
		want        AccountState
	}{
		{false, 0, false, AccountState{CredentialNone, ProfileIncomplete}},
		{true, 0, false, AccountState{CredentialPasswordOnly, ProfileIncomplete}},
		{false, 1, true, AccountState{CredentialExternalOnly, ProfileComplete}},
		{true, 2, true, AccountState{CredentialBoth, ProfileComplete}},
	}

	for _, tt := range tests {
		got := DeriveAccountState(tt.hasPassword, tt.links, tt.complete)
		if got != tt.want {
			t.Errorf("DeriveAccountState(%v, %d, %v) = %+v, want %+v", tt.hasPassword, tt.links, tt.complete, got, tt.want)
		}
	}

	if (AccountState{Credentials: CredentialNone}).Valid() {
		t.Error("state without credentials must be invalid")
	}
}

func TestAccountState_Apply(t *testing.T) {
	external := AccountState{Credentials: CredentialExternalOnly, Profile: ProfileIncomplete}

	next, err := external.Apply(AccountEvent{Kind: EventPasswordSet})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Credentials != CredentialBoth {
		t.Errorf("expected both after password set, got %s", next.Credentials)
	}

	if _, err := next.Apply(AccountEvent{Kind: EventPasswordSet}); !errors.Is(err, ErrPasswordAlreadySet) {
		t.Errorf("expected ErrPasswordAlreadySet, got %v", err)
	}

	password := AccountState{Credentials: CredentialPasswordOnly, Profile: ProfileIncomplete}
	linked, err := password.Apply(AccountEvent{Kind: EventExternalLinked})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if linked.Credentials != CredentialBoth {
		t.Errorf("expected both after link, got %s", linked.Credentials)
	}
	// 重複連結不改變狀態
	again, _ := linked.Apply(AccountEvent{Kind: EventExternalLinked})
	if again != linked {
		t.Errorf("linking twice changed state: %+v -> %+v", linked, again)
	}

	completed, _ := linked.Apply(AccountEvent{Kind: EventProfileUpdated, ProfileComplete: true})
	if !completed.IsProfileComplete() || completed.Credentials != CredentialBoth {
		t.Errorf("unexpected state after profile update: %+v", completed)
	}
	reverted, _ := completed.Apply(AccountEvent{Kind: EventProfileUpdated, ProfileComplete: false})
	if reverted.IsProfileComplete() {
		t.Error("profile should be incomplete after clearing a required field")
	}

	if _, err := linked.Apply(AccountEvent{Kind: "bogus"}); !errors.Is(err, ErrUnknownAccountEvent) {
		t.Errorf("expected ErrUnknownAccountEvent, got %v", err)
	}
}
