package service

import (
	"context"

	"wanderlust/internal/core"
)

// ExternalAssertion 外部登入驗證後取得的身分
type ExternalAssertion struct {
	Provider  core.ExternalProvider
	AccountID string
	Email     string
}

// ExternalVerifier 驗證外部登入憑證（如 Google ID token）
type ExternalVerifier interface {
	Verify(ctx context.Context, assertion string) (*ExternalAssertion, error)
}

// Registry 依 provider 取得對應的驗證器
type Registry struct {
	verifiers map[core.ExternalProvider]ExternalVerifier
}

func NewRegistry() *Registry {
	return &Registry{verifiers: make(map[core.ExternalProvider]ExternalVerifier)}
}

func (r *Registry) Register(provider core.ExternalProvider, verifier ExternalVerifier) {
	r.verifiers[provider] = verifier
}

func (r *Registry) Get(provider core.ExternalProvider) (ExternalVerifier, bool) {
	verifier, ok := r.verifiers[provider]
	return verifier, ok
}
