package model

import "time"

// Friend 收信人（一人一封信，slug 为链接标识）
type Friend struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug     string `gorm:"type:varchar(64);uniqueIndex:ux_friend_slug;not null" json:"slug"`
	Name     string `gorm:"type:varchar(128);not null" json:"name"`
	Passcode string `gorm:"type:varchar(8);not null" json:"-"`
	// 信件内容与媒体，业务上视为不透明负载
	Content    string   `gorm:"type:text" json:"content"`
	ImageURLs  []string `gorm:"serializer:json" json:"image_urls"`
	SpotifyURL string   `gorm:"type:varchar(512)" json:"spotify_url,omitempty"`
	BgmURL     string   `gorm:"type:varchar(512)" json:"bgm_url,omitempty"`
	// UnlockDate 为空时使用配置的统一解锁时间
	UnlockDate *time.Time `json:"unlock_date,omitempty"`
	// IsViewed 只会 false -> true，一旦为 true 不再改写
	IsViewed  bool      `gorm:"not null;default:false" json:"is_viewed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Friend) TableName() string { return "friends" }

// FriendStatus 后台列表的派生状态，不落库
type FriendStatus string

const (
	StatusLocked  FriendStatus = "locked"  // 无访问记录且未开信
	StatusScanned FriendStatus = "scanned" // 有访问记录但未开信
	StatusViewed  FriendStatus = "viewed"  // 已开信
)
