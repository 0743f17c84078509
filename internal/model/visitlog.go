package model

import "time"

// VisitLog 访问记录，只追加不修改；重复访问产生重复记录
type VisitLog struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FriendID  string    `gorm:"type:varchar(36);index:idx_visit_friend;not null" json:"friend_id"`
	VisitedAt time.Time `gorm:"index" json:"visited_at"`
	IPAddress string    `gorm:"type:varchar(64)" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
	// 由 UA 解析出的结构化字段
	DeviceType  string `gorm:"type:varchar(16)" json:"device_type"`
	DeviceModel string `gorm:"type:varchar(64)" json:"device_model"`
	Browser     string `gorm:"type:varchar(64)" json:"browser"`
	OS          string `gorm:"type:varchar(64)" json:"os"`
}

func (VisitLog) TableName() string { return "visit_logs" }
