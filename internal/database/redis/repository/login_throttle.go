package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wanderlust/internal/core"
	client "wanderlust/internal/database/client"
	"wanderlust/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

type LoginThrottleRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
}

func NewLoginThrottleRepository(trace *telemetry.Trace, client *client.RedisClient) *LoginThrottleRepository {
	return &LoginThrottleRepository{trace: trace, client: client.Client()}
}

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Consume 消耗一次嘗試；第一次嘗試時建立固定視窗。
// 回傳：remaining（剩餘次數）、ttlSec（視窗剩餘秒數）、err（若超限為 ErrRateLimitExceeded）
func (repository *LoginThrottleRepository) Consume(
	contextValue context.Context,
	subject string,
	windowSeconds int64,
	limitCount int,
) (remainingCount int, timeToLiveSeconds int64, returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		endSpan(returnedError)
	}()

	traceMetadata := core.TraceThrottleMeta{
		Subject:   subject,
		Limit:     limitCount,
		WindowSec: windowSeconds,
		Op:        "consume",
	}
	repository.trace.ApplyTraceAttributes(span, traceMetadata)

	redisKey := repository.buildKey(subject)
	expirationDuration := time.Duration(windowSeconds) * time.Second

	// SETNX key value EX expiration：本次消耗一次，所以初始值 = 總額-1
	wasSet, setError := repository.client.SetNX(
		contextValue,
		redisKey,
		limitCount-1,
		expirationDuration,
	).Result()
	if setError != nil {
		returnedError = setError
		return 0, 0, returnedError
	}
	if wasSet {
		remainingCount = limitCount - 1
		if remainingCount < 0 {
			remainingCount = 0
			returnedError = ErrRateLimitExceeded
		}
		timeToLiveSeconds = windowSeconds
		traceMetadata.Remaining, traceMetadata.TTL = remainingCount, timeToLiveSeconds
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		return remainingCount, timeToLiveSeconds, returnedError
	}

	// Key 已存在 → DECR 扣一次
	newValue, decrError := repository.client.Decr(contextValue, redisKey).Result()
	if decrError != nil {
		returnedError = decrError
		return 0, 0, returnedError
	}

	ttlDuration, _ := repository.client.TTL(contextValue, redisKey).Result()
	if ttlDuration > 0 {
		timeToLiveSeconds = int64(ttlDuration.Seconds())
	} else {
		// SETNX 與 EXPIRE 之間 key 失去 TTL 的保險：補回視窗
		repository.client.Expire(contextValue, redisKey, expirationDuration)
		timeToLiveSeconds = windowSeconds
	}

	if newValue < 0 {
		remainingCount = 0
		traceMetadata.Remaining, traceMetadata.TTL = remainingCount, timeToLiveSeconds
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		returnedError = ErrRateLimitExceeded
		return remainingCount, timeToLiveSeconds, returnedError
	}

	remainingCount = int(newValue)
	traceMetadata.Remaining, traceMetadata.TTL = remainingCount, timeToLiveSeconds
	repository.trace.ApplyTraceAttributes(span, traceMetadata)
	return remainingCount, timeToLiveSeconds, nil
}

// Reset 登入成功後清除計數
func (repository *LoginThrottleRepository) Reset(
	contextValue context.Context,
	subject string,
) (returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceThrottleMeta{
		Subject: subject,
		Op:      "reset",
	})

	returnedError = repository.client.Del(contextValue, repository.buildKey(subject)).Err()
	return returnedError
}

// buildKey 建構登入節流用的 Redis key
func (repository *LoginThrottleRepository) buildKey(subject string) string {
	return fmt.Sprintf("%s:%s:%s", core.RedisKeyServerName, core.RedisKeyLoginThrottle, subject)
}
