package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatthan/lastletter/internal/model"
)

type FriendRepository interface {
	Create(ctx context.Context, friend *model.Friend) error
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Friend, error)
	// GetBySlug 未命中返回 (nil, nil)
	GetBySlug(ctx context.Context, slug string) (*model.Friend, error)
	List(ctx context.Context) ([]*model.Friend, error)
	// SetViewed 幂等置位 is_viewed，只会 false -> true
	SetViewed(ctx context.Context, slug string) error
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository { return &friendRepository{db: db} }

func (r *friendRepository) Create(ctx context.Context, friend *model.Friend) error {
	if friend.ID == "" {
		friend.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(friend).Error
}

func (r *friendRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	// slug 创建后不可变，is_viewed 只能走 SetViewed
	delete(updates, "slug")
	delete(updates, "is_viewed")
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Friend{}).Where("id = ?", id).Updates(updates).Error
}

func (r *friendRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Friend{}).Error
}

func (r *friendRepository) GetByID(ctx context.Context, id string) (*model.Friend, error) {
	var f model.Friend
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *friendRepository) GetBySlug(ctx context.Context, slug string) (*model.Friend, error) {
	var f model.Friend
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *friendRepository) List(ctx context.Context) ([]*model.Friend, error) {
	var res []*model.Friend
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&res).Error
	return res, err
}

func (r *friendRepository) SetViewed(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Model(&model.Friend{}).
		Where("slug = ?", slug).
		Update("is_viewed", true).Error
}
