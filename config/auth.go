package config

type Auth struct {
	// Session token 簽章金鑰（HS256）
	SessionSecret string `mapstructure:"SESSION_SECRET" json:"session_secret" yaml:"session_secret"`
	Issuer        string `mapstructure:"ISSUER" json:"issuer" yaml:"issuer"`
	// Session 有效秒數，預設 3600
	SessionTTL int64 `mapstructure:"SESSION_TTL" json:"session_ttl" yaml:"session_ttl"`

	CookieName   string `mapstructure:"COOKIE_NAME" json:"cookie_name" yaml:"cookie_name"`
	CookieDomain string `mapstructure:"COOKIE_DOMAIN" json:"cookie_domain" yaml:"cookie_domain"`
	CookieSecure bool   `mapstructure:"COOKIE_SECURE" json:"cookie_secure" yaml:"cookie_secure"`

	BcryptCost int `mapstructure:"BCRYPT_COST" json:"bcrypt_cost" yaml:"bcrypt_cost"`

	// 登入節流：同一 email+IP 在視窗內允許的嘗試次數
	LoginAttempts      int   `mapstructure:"LOGIN_ATTEMPTS" json:"login_attempts" yaml:"login_attempts"`
	LoginWindowSeconds int64 `mapstructure:"LOGIN_WINDOW_SECONDS" json:"login_window_seconds" yaml:"login_window_seconds"`

	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID" json:"google_client_id" yaml:"google_client_id"`
}

const (
	DefaultSessionTTL         int64 = 3600
	DefaultIssuer                   = "wanderlust"
	DefaultCookieName               = "session_token"
	DefaultBcryptCost               = 12
	DefaultLoginAttempts            = 10
	DefaultLoginWindowSeconds int64 = 15 * 60
)

// WithDefaults 回傳補上預設值後的副本
func (a Auth) WithDefaults() Auth {
	if a.SessionTTL <= 0 {
		a.SessionTTL = DefaultSessionTTL
	}
	if a.Issuer == "" {
		a.Issuer = DefaultIssuer
	}
	if a.CookieName == "" {
		a.CookieName = DefaultCookieName
	}
	if a.BcryptCost < 10 {
		a.BcryptCost = DefaultBcryptCost
	}
	if a.LoginAttempts <= 0 {
		a.LoginAttempts = DefaultLoginAttempts
	}
	if a.LoginWindowSeconds <= 0 {
		a.LoginWindowSeconds = DefaultLoginWindowSeconds
	}
	return a
}
