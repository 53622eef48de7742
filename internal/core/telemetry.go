package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
type TraceSpanName string

const (
	SpanHttpRequest          TraceSpanName = "http_request"
	SpanLoggerMiddleware     TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware   TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware       TraceSpanName = "cors_middleware"
	SpanResponseMiddleware   TraceSpanName = "response_middleware"
	SpanSessionMiddleware    TraceSpanName = "session_middleware"
	SpanThrottleMiddleware   TraceSpanName = "login_throttle_middleware"
	SpanDecompressMiddleware TraceSpanName = "decompress_middleware"
	SpanProfileReconcileJob  TraceSpanName = "profile_reconcile_job"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal     MetricName = "requests_total"
	MetricHttpRequestDuration   MetricName = "request_duration_seconds"
	MetricResponseSuccessTotal  MetricName = "response_success_total"
	MetricResponseFailTotal     MetricName = "response_fail_total"
	MetricAuthEventsTotal       MetricName = "auth_events_total"
	MetricCatalogMutationsTotal MetricName = "catalog_mutations_total"
	MetricLoginThrottledTotal   MetricName = "login_throttled_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelEvent    MetricLabelName = "event"
	MetricLabelOutcome  MetricLabelName = "outcome"
	MetricLabelKind     MetricLabelName = "kind"
	MetricLabelOp       MetricLabelName = "op"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}

type TraceIdentityListMeta struct {
	Role        string  `trace:"list.role,omitempty"`
	Search      string  `trace:"list.search,omitempty"`
	ResultCount int     `trace:"result.count,omitempty"`
	Error       *string `trace:"error,omitempty"`
}

type TraceCatalogListMeta struct {
	Kind        string   `trace:"catalog.kind"`
	Type        string   `trace:"catalog.filter.type,omitempty"`
	Search      string   `trace:"catalog.filter.q,omitempty"`
	City        string   `trace:"catalog.filter.city,omitempty"`
	State       string   `trace:"catalog.filter.state,omitempty"`
	Filters     []string `trace:"catalog.filter.keys,omitempty"`
	ResultCount int      `trace:"result.count"`
}

type TraceCatalogMutationMeta struct {
	Kind       string `trace:"catalog.kind"`
	Op         string `trace:"catalog.op"`
	ResourceID string `trace:"catalog.id,omitempty"`
	ActorID    string `trace:"auth.identity_id,omitempty"`
	ActorRole  string `trace:"auth.role,omitempty"`
	Outcome    string `trace:"catalog.outcome,omitempty"`
}

// 登入 / 連結 / 換發 session 共用
type TraceAuthMeta struct {
	Op         string `trace:"auth.op"`
	Provider   string `trace:"auth.provider,omitempty"`
	IdentityID string `trace:"auth.identity_id,omitempty"`
	Outcome    string `trace:"auth.outcome,omitempty"`
	Reason     string `trace:"auth.reason,omitempty"`
	Created    bool   `trace:"auth.identity_created"`
	Linked     bool   `trace:"auth.provider_linked"`
}

// 供 Redis 登入節流 Consume / Reset 使用
type TraceThrottleMeta struct {
	Subject   string `trace:"rl.subject"`
	Limit     int    `trace:"rl.limit_count"`
	WindowSec int64  `trace:"rl.window_sec"`
	Remaining int    `trace:"rl.remaining,omitempty"`
	TTL       int64  `trace:"rl.ttl_sec,omitempty"`
	Op        string `trace:"rl.op"` // "consume" / "reset" / "get"
}

type TraceRevocationMeta struct {
	JTI     string `trace:"session.jti"`
	TTLSec  int64  `trace:"session.ttl_sec,omitempty"`
	Revoked bool   `trace:"session.revoked"`
	Op      string `trace:"session.op"`
}

type TraceReconcileMeta struct {
	Scanned  int     `trace:"reconcile.scanned"`
	Repaired int     `trace:"reconcile.repaired"`
	Error    *string `trace:"error,omitempty"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}

type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanKind          string `trace:"span.kind"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

type TraceSessionMiddlewareMeta struct {
	IdentityID string `trace:"auth.identity_id,omitempty"`
	Role       string `trace:"auth.role,omitempty"`
	Source     string `trace:"auth.token_source,omitempty"` // header / cookie
	Status     string `trace:"auth.status,omitempty"`
}

type TraceDecompressMeta struct {
	Encoding string `trace:"http.request.content_encoding"`
	Before   int64  `trace:"http.request.compressed_bytes"`
	After    int64  `trace:"http.request.decompressed_bytes"`
}
