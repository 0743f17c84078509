package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatthan/lastletter/internal/model"
)

// VisitLogWithFriend 后台分析页用的联查结果（平铺便于 Scan）
type VisitLogWithFriend struct {
	ID          string    `json:"id"`
	FriendID    string    `json:"friend_id"`
	VisitedAt   time.Time `json:"visited_at"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	DeviceType  string    `json:"device_type"`
	DeviceModel string    `json:"device_model"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	FriendName  string    `json:"friend_name"`
	FriendSlug  string    `json:"friend_slug"`
}

type VisitRepository interface {
	// Insert 只追加；一次页面加载一条，不去重
	Insert(ctx context.Context, visit *model.VisitLog) error
	CountByFriend(ctx context.Context, friendID string) (int64, error)
	ListByFriend(ctx context.Context, friendID string) ([]*model.VisitLog, error)
	ListAll(ctx context.Context) ([]*VisitLogWithFriend, error)
}

type visitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) VisitRepository { return &visitRepository{db: db} }

func (r *visitRepository) Insert(ctx context.Context, visit *model.VisitLog) error {
	if visit.ID == "" {
		visit.ID = uuid.New().String()
	}
	if visit.VisitedAt.IsZero() {
		visit.VisitedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(visit).Error
}

func (r *visitRepository) CountByFriend(ctx context.Context, friendID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.VisitLog{}).
		Where("friend_id = ?", friendID).Count(&cnt).Error
	return cnt, err
}

func (r *visitRepository) ListByFriend(ctx context.Context, friendID string) ([]*model.VisitLog, error) {
	var res []*model.VisitLog
	err := r.db.WithContext(ctx).
		Where("friend_id = ?", friendID).
		Order("visited_at DESC").
		Find(&res).Error
	return res, err
}

func (r *visitRepository) ListAll(ctx context.Context) ([]*VisitLogWithFriend, error) {
	var res []*VisitLogWithFriend
	err := r.db.WithContext(ctx).
		Table("visit_logs").
		Select("visit_logs.*", "friends.name AS friend_name", "friends.slug AS friend_slug").
		Joins("JOIN friends ON friends.id = visit_logs.friend_id").
		Order("visit_logs.visited_at DESC").
		Scan(&res).Error
	return res, err
}
