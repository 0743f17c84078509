package model

import "time"

// Reply 收信人的回信；is_private 为 true 时仅后台可见
type Reply struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FriendID   string    `gorm:"type:varchar(36);index:idx_reply_friend;not null" json:"friend_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	SenderName string    `gorm:"type:varchar(128)" json:"sender_name,omitempty"`
	IsPrivate  bool      `gorm:"not null;default:false" json:"is_private"`
	IsRead     bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Reply) TableName() string { return "replies" }
