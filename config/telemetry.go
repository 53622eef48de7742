package config

type TelemetryConfig struct {
	Metric struct {
		Enabled bool      `yaml:"enabled" mapstructure:"ENABLED" json:"enabled"`
		Buckets []float64 `yaml:"buckets" mapstructure:"BUCKETS" json:"buckets"`
	} `yaml:"metric" mapstructure:"METRIC" json:"metric"`
	Trace struct {
		Enabled     bool   `yaml:"enabled" mapstructure:"ENABLED" json:"enabled"`
		EndpointUrl string `yaml:"endpointUrl" mapstructure:"ENDPOINT_URL" json:"endpointUrl"`
		// 額外接受 GCP X-Cloud-Trace-Context 標頭
		CloudTracePropagation bool `yaml:"cloudTracePropagation" mapstructure:"CLOUD_TRACE_PROPAGATION" json:"cloudTracePropagation"`
	} `yaml:"trace" mapstructure:"TRACE" json:"trace"`
}
