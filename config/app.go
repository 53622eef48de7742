package config

type App struct {
	// 當前開發環境
	Env string `mapstructure:"ENV" json:"env" yaml:"env"`
	// 服務端口
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port"`
	// 服務名稱
	Name string `mapstructure:"NAME" json:"name" yaml:"name"`
	// 服務版本
	Version        string `mapstructure:"VERSION" json:"version" yaml:"version"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
	// 對外路徑前綴（反向代理後），僅 swagger 使用
	BasePath string `mapstructure:"BASE_PATH" json:"base_path" yaml:"base_path"`
	// 允許攜帶 cookie 的前端來源，逗號分隔；未設定時允許所有來源但不帶 credentials
	CorsAllowOrigins []string `mapstructure:"CORS_ALLOW_ORIGINS" json:"cors_allow_origins" yaml:"cors_allow_origins"`
	// 壓縮請求解壓後的 body 上限（bytes），預設 1 MiB
	MaxBodyBytes int64 `mapstructure:"MAX_BODY_BYTES" json:"max_body_bytes" yaml:"max_body_bytes"`
}
