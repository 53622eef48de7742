package service

import (
	"errors"
	"testing"

	"wanderlust/internal/core"

	"google.golang.org/api/oauth2/v2"
)

func TestCheckGoogleTokenInfo(t *testing.T) {
	const clientID = "client-123.apps.googleusercontent.com"
	valid := func() *oauth2.Tokeninfo {
		return &oauth2.Tokeninfo{Audience: clientID, VerifiedEmail: true, UserId: "1098", Email: "g@example.com"}
	}

	cases := []struct {
		name     string
		mutate   func(*oauth2.Tokeninfo)
		clientID string
		want     error
	}{
		{"valid", func(*oauth2.Tokeninfo) {}, clientID, nil},
		{"other audience", func(info *oauth2.Tokeninfo) { info.Audience = "someone-else" }, clientID, ErrExternalAudience},
		{"client id not configured", func(*oauth2.Tokeninfo) {}, "", ErrExternalAudience},
		{"email not verified", func(info *oauth2.Tokeninfo) { info.VerifiedEmail = false }, clientID, ErrExternalUnverified},
		{"missing subject", func(info *oauth2.Tokeninfo) { info.UserId = "" }, clientID, ErrExternalIncomplete},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := valid()
			tc.mutate(info)
			assertion, err := checkGoogleTokenInfo(info, tc.clientID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.want == nil && (assertion.Provider != core.ProviderGoogle || assertion.AccountID != "1098") {
				t.Fatalf("unexpected assertion: %+v", assertion)
			}
		})
	}
}
