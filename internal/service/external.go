package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/telemetry"

	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrExternalAudience   = errors.New("external token audience mismatch")
	ErrExternalUnverified = errors.New("external email is not verified")
	ErrExternalIncomplete = errors.New("external token has no subject or email")
)

// GoogleVerifier 透過 Google tokeninfo 驗證 ID token
type GoogleVerifier struct {
	trace      *telemetry.Trace
	clientID   string
	httpClient *http.Client
}

func NewGoogleVerifier(trace *telemetry.Trace, config *config.Configuration) *GoogleVerifier {
	return &GoogleVerifier{
		trace:      trace,
		clientID:   config.Auth.GoogleClientID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (_ *ExternalAssertion, returnedError error) {
	ctx, span, end := v.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	oauth2Service, err := oauth2.NewService(ctx, option.WithHTTPClient(v.httpClient))
	if err != nil {
		return nil, err
	}
	tokenInfo, err := oauth2Service.Tokeninfo().IdToken(idToken).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	v.trace.ApplyTraceAttributes(span, core.TraceAuthMeta{
		Op:       "verify_external",
		Provider: string(core.ProviderGoogle),
	})
	return checkGoogleTokenInfo(tokenInfo, v.clientID)
}

func checkGoogleTokenInfo(tokenInfo *oauth2.Tokeninfo, clientID string) (*ExternalAssertion, error) {
	if clientID == "" || tokenInfo.Audience != clientID {
		return nil, ErrExternalAudience
	}
	if !tokenInfo.VerifiedEmail {
		return nil, ErrExternalUnverified
	}
	if tokenInfo.UserId == "" || tokenInfo.Email == "" {
		return nil, ErrExternalIncomplete
	}
	return &ExternalAssertion{
		Provider:  core.ProviderGoogle,
		AccountID: tokenInfo.UserId,
		Email:     tokenInfo.Email,
	}, nil
}

// ProvideRegistryWithVerifiers 註冊所有外部登入驗證器
func ProvideRegistryWithVerifiers(google *GoogleVerifier) *Registry {
	reg := NewRegistry()
	reg.Register(core.ProviderGoogle, google)
	return reg
}
