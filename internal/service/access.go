package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chatthan/lastletter/internal/model"
	"github.com/chatthan/lastletter/internal/repository"
	"github.com/chatthan/lastletter/pkg/logger"
	"go.uber.org/zap"
)

// Phase 信件页的访问阶段，只会单向推进
type Phase string

const (
	PhaseCountdown Phase = "countdown"
	PhaseAuth      Phase = "auth"
	PhaseReveal    Phase = "reveal"
)

// MsgWrongPasscode 验证失败时给收信人看的固定文案（泰文，与站点一致）
const MsgWrongPasscode = "รหัสผ่านไม่ถูกต้อง"

var (
	ErrFriendNotFound  = errors.New("friend not found")
	ErrVerifyInFlight  = errors.New("verification already in flight")
	ErrSessionNotFound = errors.New("session not found")
	ErrStillLocked     = errors.New("letter is still locked")
)

// PasscodeVerifier 口令校验协作方（精确字符串比较）
type PasscodeVerifier interface {
	VerifyPasscode(ctx context.Context, slug, pin string) (bool, error)
}

// ViewMarker 开信标记协作方（幂等置位）
type ViewMarker interface {
	SetViewed(ctx context.Context, slug string) error
}

// AccessService 解析解锁时间、校验口令并按需打开信标记。
// 标记写失败只记日志不拦截，分析数据永远不挡住收信人看信。
type AccessService struct {
	friends         repository.FriendRepository
	defaultUnlockAt time.Time
}

func NewAccessService(friends repository.FriendRepository, defaultUnlockAt time.Time) *AccessService {
	return &AccessService{friends: friends, defaultUnlockAt: defaultUnlockAt}
}

// Friend 按 slug 取收信人；未命中返回 ErrFriendNotFound
func (s *AccessService) Friend(ctx context.Context, slug string) (*model.Friend, error) {
	f, err := s.friends.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendNotFound
	}
	return f, nil
}

// UnlockAt 收信人未设置 unlock_date 时退回统一解锁时间
func (s *AccessService) UnlockAt(f *model.Friend) time.Time {
	if f != nil && f.UnlockDate != nil {
		return *f.UnlockDate
	}
	return s.defaultUnlockAt
}

// PhaseAt 按当前时刻计算初始阶段；reveal 只能由口令验证进入
func (s *AccessService) PhaseAt(f *model.Friend, now time.Time) Phase {
	if now.Before(s.UnlockAt(f)) {
		return PhaseCountdown
	}
	return PhaseAuth
}

func (s *AccessService) VerifyPasscode(ctx context.Context, slug, pin string) (bool, error) {
	f, err := s.friends.GetBySlug(ctx, slug)
	if err != nil {
		return false, err
	}
	if f == nil {
		return false, ErrFriendNotFound
	}
	return f.Passcode == pin, nil
}

func (s *AccessService) SetViewed(ctx context.Context, slug string) error {
	return s.friends.SetViewed(ctx, slug)
}

// SubmitPasscode 无状态版本的提交入口：校验通过时返回完整收信人记录，
// 并在首次通过时置位 is_viewed（已置位则跳过，不会重复写）。
func (s *AccessService) SubmitPasscode(ctx context.Context, slug, pin string) (*model.Friend, bool, error) {
	f, err := s.friends.GetBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}
	if f == nil {
		return nil, false, ErrFriendNotFound
	}
	if f.Passcode != pin {
		return nil, false, nil
	}
	if !f.IsViewed {
		if err := s.friends.SetViewed(ctx, slug); err != nil {
			// 吞掉：看信优先于统计准确性
			logger.Warn("set viewed failed", zap.String("slug", slug), zap.Error(err))
		} else {
			f.IsViewed = true
		}
	}
	return f, true, nil
}

// Session 一次信件页会话的状态机。
// countdown -> auth 由秒级轮询触发一次；auth -> reveal 只由口令验证触发；
// 不存在回退转移。页面重开即重建会话，阶段按当前时刻重新计算。
type Session struct {
	Token string

	mu        sync.Mutex
	slug      string
	unlockAt  time.Time
	viewed    bool
	phase     Phase
	errMsg    string
	verifying bool
	lastSeen  time.Time

	verifier PasscodeVerifier
	marker   ViewMarker
	now      func() time.Time

	stopTick chan struct{}
	tickOnce sync.Once
}

// sessionOption 仅测试用：替换时钟与轮询间隔
type sessionOption func(*sessionConfig)

type sessionConfig struct {
	now          func() time.Time
	tickInterval time.Duration
}

func withClock(now func() time.Time) sessionOption {
	return func(c *sessionConfig) { c.now = now }
}

func withTickInterval(d time.Duration) sessionOption {
	return func(c *sessionConfig) { c.tickInterval = d }
}

func newSession(token, slug string, unlockAt time.Time, viewed bool, verifier PasscodeVerifier, marker ViewMarker, opts ...sessionOption) *Session {
	cfg := sessionConfig{now: time.Now, tickInterval: time.Second}
	for _, o := range opts {
		o(&cfg)
	}
	s := &Session{
		Token:    token,
		slug:     slug,
		unlockAt: unlockAt,
		viewed:   viewed,
		verifier: verifier,
		marker:   marker,
		now:      cfg.now,
		stopTick: make(chan struct{}),
	}
	s.lastSeen = cfg.now()
	if cfg.now().Before(unlockAt) {
		s.phase = PhaseCountdown
		go s.countdownLoop(cfg.tickInterval)
	} else {
		s.phase = PhaseAuth
		s.closeTick()
	}
	return s
}

// countdownLoop 每个 tick 检查一次是否到点；到点只推进一次并退出
func (s *Session) countdownLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopTick:
			return
		case <-ticker.C:
			if !s.now().Before(s.unlockAt) {
				s.mu.Lock()
				if s.phase == PhaseCountdown {
					s.phase = PhaseAuth
				}
				s.mu.Unlock()
				s.closeTick()
				return
			}
		}
	}
}

func (s *Session) closeTick() {
	s.tickOnce.Do(func() { close(s.stopTick) })
}

// Phase 当前阶段；顺带把倒计时到点的情况折算进来，
// 避免调用方恰好落在两个 tick 之间拿到过期阶段。
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	if s.phase == PhaseCountdown && !s.now().Before(s.unlockAt) {
		s.phase = PhaseAuth
		s.closeTick()
	}
	return s.phase
}

// Err 给渲染层的错误文案，空串表示无错误
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Remaining 距离解锁的剩余时长，已解锁为 0
func (s *Session) Remaining() time.Duration {
	d := s.unlockAt.Sub(s.now())
	if d < 0 {
		return 0
	}
	return d
}

// SubmitPasscode 提交口令。同一会话同时只允许一次在途验证；
// countdown 阶段不受理；reveal 阶段幂等返回成功。
func (s *Session) SubmitPasscode(ctx context.Context, pin string) (bool, error) {
	s.mu.Lock()
	s.lastSeen = s.now()
	switch {
	case s.phase == PhaseReveal:
		s.mu.Unlock()
		return true, nil
	case s.phase == PhaseCountdown:
		if s.now().Before(s.unlockAt) {
			s.mu.Unlock()
			return false, ErrStillLocked
		}
		s.phase = PhaseAuth
		s.closeTick()
	}
	if s.verifying {
		s.mu.Unlock()
		return false, ErrVerifyInFlight
	}
	s.verifying = true
	s.mu.Unlock()

	ok, err := s.verifier.VerifyPasscode(ctx, s.slug, pin)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifying = false
	if err != nil {
		s.errMsg = MsgWrongPasscode
		return false, err
	}
	if !ok {
		s.errMsg = MsgWrongPasscode
		return false, nil
	}
	if !s.viewed {
		// 只在首次通过时标记；失败吞掉，照常进 reveal
		if mErr := s.marker.SetViewed(ctx, s.slug); mErr != nil {
			logger.Warn("set viewed failed", zap.String("slug", s.slug), zap.Error(mErr))
		}
		s.viewed = true
	}
	s.phase = PhaseReveal
	s.errMsg = ""
	return true, nil
}

// Slug 会话绑定的收信人 slug
func (s *Session) Slug() string { return s.slug }

// Close 停掉倒计时轮询
func (s *Session) Close() { s.closeTick() }

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
