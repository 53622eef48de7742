package service

import (
	"context"
	"errors"
	"time"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/dto"
	cErr "wanderlust/internal/pkg/error"
	"wanderlust/internal/telemetry"
	"wanderlust/utils/session"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var ErrSessionSecretMissing = errors.New("AUTH__SESSION_SECRET is required")

// SessionService 簽發、驗證、換發與撤銷 session token
type SessionService struct {
	logger      *zap.Logger
	trace       *telemetry.Trace
	metric      *telemetry.Metric
	revocations RevocationStore
	identities  IdentityStore
	options     session.Options
}

func NewSessionService(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	config *config.Configuration,
	revocations RevocationStore,
	identities IdentityStore,
) (*SessionService, error) {
	auth := config.Auth.WithDefaults()
	if auth.SessionSecret == "" {
		return nil, ErrSessionSecretMissing
	}
	return &SessionService{
		logger:      logger,
		trace:       trace,
		metric:      metric,
		revocations: revocations,
		identities:  identities,
		options: session.Options{
			Secret: []byte(auth.SessionSecret),
			Issuer: auth.Issuer,
			TTL:    time.Duration(auth.SessionTTL) * time.Second,
		},
	}, nil
}

// Issue 由身分快照簽發新 token
func (s *SessionService) Issue(ctx context.Context, snapshot core.IdentitySnapshot) (_ *dto.SessionResponseDto, returnedError error) {
	_, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	token, claims, err := session.Issue(snapshot, s.options)
	if err != nil {
		s.logger.Error("issue session failed", zap.Error(err))
		return nil, cErr.InternalServer("could not issue session")
	}
	s.trace.ApplyTraceAttributes(span, core.TraceAuthMeta{Op: "session_issue", IdentityID: snapshot.ID, Outcome: outcomeSuccess})
	return &dto.SessionResponseDto{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt.Time,
		Identity:  snapshot,
	}, nil
}

// Validate 解析 token 並檢查是否已登出
func (s *SessionService) Validate(ctx context.Context, token string) (_ *core.SessionClaims, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if token == "" {
		return nil, cErr.Unauthorized("authentication required")
	}
	claims, err := session.Decode(token, s.options)
	if err != nil {
		return nil, cErr.InvalidSession("session is invalid or expired")
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("check session revocation failed", zap.Error(err))
		return nil, cErr.ServiceUnavailable("session store unavailable")
	}
	if revoked {
		return nil, cErr.InvalidSession("session has been signed out")
	}
	return claims, nil
}

// Refresh 以資料庫最新狀態換發 token，並撤銷舊 token
func (s *SessionService) Refresh(ctx context.Context, claims *core.SessionClaims) (_ *dto.SessionResponseDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	identityID, err := primitive.ObjectIDFromHex(claims.IdentityID)
	if err != nil {
		return nil, cErr.InvalidSession("session identity is invalid")
	}
	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.InvalidSession("session identity no longer exists")
		}
		return nil, cErr.DatabaseError()
	}
	issued, err := s.Issue(ctx, identity.Snapshot())
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		// 新 token 已簽發，舊 token 仍會在到期後失效
		s.logger.Warn("revoke previous session failed", zap.String("jti", claims.ID), zap.Error(err))
	}
	s.metric.AuthEvent("session_refresh", outcomeSuccess, "")
	return issued, nil
}

// Revoke 登出：jti 加入黑名單直到原到期時間
func (s *SessionService) Revoke(ctx context.Context, claims *core.SessionClaims) (returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if err := s.revoke(ctx, claims); err != nil {
		s.logger.Error("revoke session failed", zap.String("jti", claims.ID), zap.Error(err))
		return cErr.ServiceUnavailable("session store unavailable")
	}
	s.metric.AuthEvent("signout", outcomeSuccess, "")
	return nil
}

func (s *SessionService) revoke(ctx context.Context, claims *core.SessionClaims) error {
	return s.revocations.Revoke(ctx, claims.ID, session.Remaining(claims, time.Now()))
}

// CookieMaxAge cookie 有效秒數與 token 一致
func (s *SessionService) CookieMaxAge() int {
	return int(s.options.TTL / time.Second)
}
