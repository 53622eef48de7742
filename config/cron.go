package config

type Cron struct {
	// 六欄位（含秒）cron 表達式，或 @every 1h；空字串代表停用
	ProfileReconcileSpec string `mapstructure:"PROFILE_RECONCILE_SPEC" json:"profile_reconcile_spec" yaml:"profile_reconcile_spec"`
}
