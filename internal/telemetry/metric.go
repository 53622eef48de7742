package telemetry

import (
	"wanderlust/config"
	"wanderlust/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct；未啟用時所有欄位為 nil，呼叫端需先判斷
type Metric struct {
	HttpRequestsTotal     *prometheus.CounterVec
	HttpRequestDuration   *prometheus.HistogramVec
	ResponseSuccessTotal  *prometheus.CounterVec
	ResponseFailTotal     *prometheus.CounterVec
	AuthEventsTotal       *prometheus.CounterVec
	CatalogMutationsTotal *prometheus.CounterVec
	LoginThrottledTotal   *prometheus.CounterVec
	config                *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricHttpRequestDuration),
				Help:    "Request handling duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		ResponseSuccessTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricResponseSuccessTotal),
				Help: "Successful responses",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		ResponseFailTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricResponseFailTotal),
				Help: "Failed responses",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelReason),
		),
		AuthEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricAuthEventsTotal),
				Help: "Sign-in, link and session events by outcome",
			},
			labelNames(core.MetricLabelEvent, core.MetricLabelOutcome, core.MetricLabelReason),
		),
		CatalogMutationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricCatalogMutationsTotal),
				Help: "Catalog create / update / delete count",
			},
			labelNames(core.MetricLabelKind, core.MetricLabelOp, core.MetricLabelOutcome),
		),
		LoginThrottledTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricLoginThrottledTotal),
				Help: "Sign-in attempts rejected by the login throttle",
			},
			labelNames(core.MetricLabelEndpoint),
		),
	}
}

// AuthEvent 記錄登入相關事件；未啟用時略過
func (m *Metric) AuthEvent(event, outcome, reason string) {
	if m == nil || m.AuthEventsTotal == nil {
		return
	}
	m.AuthEventsTotal.WithLabelValues(event, outcome, reason).Inc()
}

// CatalogMutation 記錄目錄異動；未啟用時略過
func (m *Metric) CatalogMutation(kind, op, outcome string) {
	if m == nil || m.CatalogMutationsTotal == nil {
		return
	}
	m.CatalogMutationsTotal.WithLabelValues(kind, op, outcome).Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
