package repository

import (
	"context"
	"fmt"
	"time"

	"wanderlust/internal/core"
	client "wanderlust/internal/database/client"
	"wanderlust/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// SessionRevocationRepository 以 jti 為 key 的登出黑名單，TTL 對齊 token 到期時間
type SessionRevocationRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
}

func NewSessionRevocationRepository(trace *telemetry.Trace, client *client.RedisClient) *SessionRevocationRepository {
	return &SessionRevocationRepository{trace: trace, client: client.Client()}
}

func (repository *SessionRevocationRepository) Revoke(
	contextValue context.Context,
	jti string,
	ttl time.Duration,
) (returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceRevocationMeta{
		JTI:     jti,
		TTLSec:  int64(ttl.Seconds()),
		Revoked: true,
		Op:      "revoke",
	})

	// 已過期的 token 本來就無效，不需寫入
	if ttl <= 0 {
		return nil
	}
	returnedError = repository.client.Set(contextValue, repository.buildKey(jti), 1, ttl).Err()
	return returnedError
}

func (repository *SessionRevocationRepository) IsRevoked(
	contextValue context.Context,
	jti string,
) (revoked bool, returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	count, existsError := repository.client.Exists(contextValue, repository.buildKey(jti)).Result()
	if existsError != nil {
		returnedError = existsError
		return false, returnedError
	}
	revoked = count > 0
	repository.trace.ApplyTraceAttributes(span, core.TraceRevocationMeta{
		JTI:     jti,
		Revoked: revoked,
		Op:      "check",
	})
	return revoked, nil
}

func (repository *SessionRevocationRepository) buildKey(jti string) string {
	return fmt.Sprintf("%s:%s:%s", core.RedisKeyServerName, core.RedisKeyBlacklist, jti)
}
