package service

import (
	"context"
	"sync/atomic"
	"time"

	"wanderlust/internal/database/client"
)

// Pinger 相依服務的連線檢查
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	live  atomic.Bool
	ready atomic.Bool
	deps  map[string]Pinger
}

func NewHealthService(mongoClient *client.MongoClient, redisClient *client.RedisClient) *HealthService {
	return newHealthService(map[string]Pinger{
		"mongodb": mongoClient,
		"redis":   redisClient,
	})
}

func newHealthService(deps map[string]Pinger) *HealthService {
	s := &HealthService{deps: deps}
	s.live.Store(true)
	s.ready.Store(false) // 啟動完成後再打開
	return s
}

func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

func (s *HealthService) IsReady() bool {
	return s.ready.Load()
}

// CheckDependencies 逐一 ping，回傳各相依服務狀態與是否全部正常
func (s *HealthService) CheckDependencies(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(s.deps))
	healthy := true
	for name, dep := range s.deps {
		if err := dep.Ping(ctx); err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}
	return status, healthy
}
