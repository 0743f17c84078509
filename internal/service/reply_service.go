package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chatthan/lastletter/internal/model"
	"github.com/chatthan/lastletter/internal/repository"
	"github.com/chatthan/lastletter/pkg/logger"
)

const unreadCountKey = "replies:unread_count"

// ReplyInput 公开回信入参
type ReplyInput struct {
	Content    string `json:"content" binding:"required,max=4000"`
	SenderName string `json:"sender_name" binding:"max=128"`
	IsPrivate  bool   `json:"is_private"`
}

// ReplyService 回信：公开墙 + 后台收件箱。
// 未读数被后台以固定间隔轮询，走 Redis 短 TTL 缓存兜底；
// cache 为 nil 时直接查库。
type ReplyService interface {
	Create(ctx context.Context, slug string, in *ReplyInput) (*model.Reply, error)
	PublicFeed(ctx context.Context, slug string) ([]*model.Reply, error)
	All(ctx context.Context) ([]*repository.ReplyWithFriend, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id string) error
}

type replyService struct {
	replies repository.ReplyRepository
	friends repository.FriendRepository
	cache   *redis.Client
	ttl     time.Duration
}

func NewReplyService(replies repository.ReplyRepository, friends repository.FriendRepository, cache *redis.Client, ttl time.Duration) ReplyService {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &replyService{replies: replies, friends: friends, cache: cache, ttl: ttl}
}

func (s *replyService) Create(ctx context.Context, slug string, in *ReplyInput) (*model.Reply, error) {
	f, err := s.friends.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendNotFound
	}
	r := &model.Reply{
		FriendID:   f.ID,
		Content:    in.Content,
		SenderName: in.SenderName,
		IsPrivate:  in.IsPrivate,
	}
	if err := s.replies.Create(ctx, r); err != nil {
		return nil, err
	}
	s.invalidateUnread(ctx)
	return r, nil
}

func (s *replyService) PublicFeed(ctx context.Context, slug string) ([]*model.Reply, error) {
	f, err := s.friends.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendNotFound
	}
	return s.replies.ListPublicByFriend(ctx, f.ID)
}

func (s *replyService) All(ctx context.Context) ([]*repository.ReplyWithFriend, error) {
	return s.replies.ListAll(ctx)
}

func (s *replyService) UnreadCount(ctx context.Context) (int64, error) {
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, unreadCountKey).Result(); err == nil {
			if n, pErr := strconv.ParseInt(v, 10, 64); pErr == nil {
				return n, nil
			}
		}
	}
	cnt, err := s.replies.CountUnread(ctx)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, unreadCountKey, strconv.FormatInt(cnt, 10), s.ttl).Err(); err != nil {
			logger.Warn("unread count cache set failed", zap.Error(err))
		}
	}
	return cnt, nil
}

func (s *replyService) MarkRead(ctx context.Context, id string) error {
	if err := s.replies.MarkRead(ctx, id); err != nil {
		return err
	}
	s.invalidateUnread(ctx)
	return nil
}

func (s *replyService) invalidateUnread(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, unreadCountKey).Err(); err != nil {
		logger.Warn("unread count cache del failed", zap.Error(err))
	}
}
