package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatthan/lastletter/internal/model"
)

// ReplyWithFriend 后台收件箱的联查结果（平铺便于 Scan）
type ReplyWithFriend struct {
	ID         string    `json:"id"`
	FriendID   string    `json:"friend_id"`
	Content    string    `json:"content"`
	SenderName string    `json:"sender_name,omitempty"`
	IsPrivate  bool      `json:"is_private"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
	FriendName string    `json:"friend_name"`
	FriendSlug string    `json:"friend_slug"`
}

type ReplyRepository interface {
	Create(ctx context.Context, reply *model.Reply) error
	// ListPublicByFriend 公开回信流，仅 is_private = false
	ListPublicByFriend(ctx context.Context, friendID string) ([]*model.Reply, error)
	ListAll(ctx context.Context) ([]*ReplyWithFriend, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id string) error
}

type replyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) ReplyRepository { return &replyRepository{db: db} }

func (r *replyRepository) Create(ctx context.Context, reply *model.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *replyRepository) ListPublicByFriend(ctx context.Context, friendID string) ([]*model.Reply, error) {
	var res []*model.Reply
	err := r.db.WithContext(ctx).
		Where("friend_id = ? AND is_private = ?", friendID, false).
		Order("created_at DESC").
		Find(&res).Error
	return res, err
}

func (r *replyRepository) ListAll(ctx context.Context) ([]*ReplyWithFriend, error) {
	var res []*ReplyWithFriend
	err := r.db.WithContext(ctx).
		Table("replies").
		Select("replies.*", "friends.name AS friend_name", "friends.slug AS friend_slug").
		Joins("JOIN friends ON friends.id = replies.friend_id").
		Order("replies.created_at DESC").
		Scan(&res).Error
	return res, err
}

func (r *replyRepository) CountUnread(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Reply{}).
		Where("is_read = ?", false).Count(&cnt).Error
	return cnt, err
}

func (r *replyRepository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Reply{}).
		Where("id = ?", id).Update("is_read", true).Error
}
