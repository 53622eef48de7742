package repository

import (
	"context"
	"time"

	"wanderlust/config"
	"wanderlust/internal/core"
	"wanderlust/internal/database/client"
	"wanderlust/internal/database/fluentd/model"
	"wanderlust/utils/validate"
)

const loggedAtLayout = "2006-01-02 15:04:05.999999 UTC"

// LogRepository 統一負責發送 Request/Response/AuthEvent Log 到 Fluentd
type LogRepository struct {
	fluentdClient client.Client
	projectName   string
	version       string
}

func NewLogRepository(config *config.Configuration, client client.Client) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: client, projectName: config.App.Name, version: version}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = time.Now().UTC().Format(loggedAtLayout)
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	return repository.post(ctx, core.FluentdRequest, req)
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = time.Now().UTC().Format(loggedAtLayout)
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	return repository.post(ctx, core.FluentdResponse, resp)
}

func (repository *LogRepository) LogAuthEvent(ctx context.Context, event model.AuthEventLog) error {
	if event.LoggedAt == "" {
		event.LoggedAt = time.Now().UTC().Format(loggedAtLayout)
	}
	if event.Version == "" {
		event.Version = repository.version
	}
	if event.ProjectName == "" {
		event.ProjectName = repository.projectName
	}
	return repository.post(ctx, core.FluentdAuthEvent, event)
}

// fluent-logger 以 msgpack 編碼 map 最穩定，先經 JSON 轉成 map
func (repository *LogRepository) post(ctx context.Context, tag core.FluentdSubTag, record any) error {
	fluentdMessage, err := validate.PayloadToMap(record)
	if err != nil {
		return err
	}
	return repository.fluentdClient.Post(ctx, string(tag), fluentdMessage)
}
