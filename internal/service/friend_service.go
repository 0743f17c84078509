package service

import (
	"context"
	"errors"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/chatthan/lastletter/internal/model"
	"github.com/chatthan/lastletter/internal/repository"
)

var (
	ErrSlugTaken   = errors.New("slug already taken")
	ErrInvalidSlug = errors.New("invalid slug")
)

// FriendWithStatus 后台列表行：原始记录加派生状态与访问计数
type FriendWithStatus struct {
	*model.Friend
	Status     model.FriendStatus `json:"status"`
	VisitCount int64              `json:"visit_count"`
}

// FriendInput 创建/更新入参
type FriendInput struct {
	Name       string     `json:"name" binding:"required"`
	Slug       string     `json:"slug" binding:"required,max=64,slugchars"`
	Passcode   string     `json:"passcode" binding:"required,len=4,numeric"`
	Content    string     `json:"content"`
	ImageURLs  []string   `json:"image_urls"`
	SpotifyURL string     `json:"spotify_url"`
	BgmURL     string     `json:"bgm_url"`
	UnlockDate *time.Time `json:"unlock_date"`
}

// FriendService 后台对收信人的 CRUD 与统计
type FriendService interface {
	Create(ctx context.Context, in *FriendInput) (*model.Friend, error)
	Update(ctx context.Context, id string, in *FriendInput) (*model.Friend, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Friend, error)
	// ListWithStatus 每行独立计算状态与访问数
	ListWithStatus(ctx context.Context) ([]*FriendWithStatus, error)
	Stats(ctx context.Context) (DashboardStats, error)
	Visits(ctx context.Context, friendID string) ([]*model.VisitLog, error)
	AllVisits(ctx context.Context) ([]*repository.VisitLogWithFriend, error)
	// ShareQR 生成指向公开信件页的二维码 PNG
	ShareQR(ctx context.Context, id string) ([]byte, error)
}

type friendService struct {
	friends repository.FriendRepository
	visits  repository.VisitRepository
	baseURL string
}

func NewFriendService(friends repository.FriendRepository, visits repository.VisitRepository, baseURL string) FriendService {
	return &friendService{friends: friends, visits: visits, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *friendService) Create(ctx context.Context, in *FriendInput) (*model.Friend, error) {
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if slug == "" || strings.ContainsAny(slug, " /?#") {
		return nil, ErrInvalidSlug
	}
	if existing, err := s.friends.GetBySlug(ctx, slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrSlugTaken
	}
	f := &model.Friend{
		Slug:       slug,
		Name:       in.Name,
		Passcode:   in.Passcode,
		Content:    in.Content,
		ImageURLs:  in.ImageURLs,
		SpotifyURL: in.SpotifyURL,
		BgmURL:     in.BgmURL,
		UnlockDate: in.UnlockDate,
	}
	if err := s.friends.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *friendService) Update(ctx context.Context, id string, in *FriendInput) (*model.Friend, error) {
	// slug 不可变；is_viewed 不经此路径
	updates := map[string]any{
		"name":        in.Name,
		"passcode":    in.Passcode,
		"content":     in.Content,
		"spotify_url": in.SpotifyURL,
		"bgm_url":     in.BgmURL,
		"unlock_date": in.UnlockDate,
	}
	if err := s.friends.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	if in.ImageURLs != nil {
		if err := s.friends.Update(ctx, id, map[string]any{"image_urls": in.ImageURLs}); err != nil {
			return nil, err
		}
	}
	f, err := s.friends.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendNotFound
	}
	return f, nil
}

func (s *friendService) Delete(ctx context.Context, id string) error {
	return s.friends.Delete(ctx, id)
}

func (s *friendService) Get(ctx context.Context, id string) (*model.Friend, error) {
	f, err := s.friends.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendNotFound
	}
	return f, nil
}

func (s *friendService) ListWithStatus(ctx context.Context) ([]*FriendWithStatus, error) {
	friends, err := s.friends.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*FriendWithStatus, 0, len(friends))
	for _, f := range friends {
		cnt, err := s.visits.CountByFriend(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		res = append(res, &FriendWithStatus{
			Friend:     f,
			Status:     ComputeStatus(f.IsViewed, cnt),
			VisitCount: cnt,
		})
	}
	return res, nil
}

func (s *friendService) Stats(ctx context.Context) (DashboardStats, error) {
	rows, err := s.ListWithStatus(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	statuses := make([]model.FriendStatus, len(rows))
	for i, r := range rows {
		statuses[i] = r.Status
	}
	return ComputeStats(statuses), nil
}

func (s *friendService) Visits(ctx context.Context, friendID string) ([]*model.VisitLog, error) {
	return s.visits.ListByFriend(ctx, friendID)
}

func (s *friendService) AllVisits(ctx context.Context) ([]*repository.VisitLogWithFriend, error) {
	return s.visits.ListAll(ctx)
}

func (s *friendService) ShareQR(ctx context.Context, id string) ([]byte, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(s.baseURL+"/"+f.Slug, qrcode.Medium, 256)
}
