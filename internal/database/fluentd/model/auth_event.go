package model

// AuthEventLog 登入、外部連結、登出等身分事件
type AuthEventLog struct {
	RequestID   string `bson:"request_id,omitempty" json:"request_id,omitempty"`
	ProjectName string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Event       string `bson:"event" json:"event"`
	Outcome     string `bson:"outcome" json:"outcome"`
	// 僅內部紀錄，不回給使用者
	Reason     string `bson:"reason,omitempty" json:"reason,omitempty"`
	Provider   string `bson:"provider,omitempty" json:"provider,omitempty"`
	IdentityID string `bson:"identity_id,omitempty" json:"identity_id,omitempty"`
	EmailHash  string `bson:"email_hash,omitempty" json:"email_hash,omitempty"`
	IPHash     string `bson:"ip_hash,omitempty" json:"ip_hash,omitempty"`
	Version    string `bson:"version" json:"version"`
	LoggedAt   string `bson:"logged_at" json:"logged_at"`
}
