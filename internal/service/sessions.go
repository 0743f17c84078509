package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionManager 持有在途的信件页会话。会话是纯内存态：
// 页面重开就换新会话，阶段按当时时刻重算，不做任何持久化。
type SessionManager struct {
	access *AccessService

	mu       sync.RWMutex
	sessions map[string]*Session

	idleTTL time.Duration
	stop    chan struct{}
	once    sync.Once
}

func NewSessionManager(access *AccessService, idleTTL time.Duration) *SessionManager {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	m := &SessionManager{
		access:   access,
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		stop:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Open 为 slug 建一个新会话；未知 slug 返回 ErrFriendNotFound
func (m *SessionManager) Open(ctx context.Context, slug string) (*Session, error) {
	f, err := m.access.friends.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendNotFound
	}
	s := newSession(uuid.New().String(), slug, m.access.UnlockAt(f), f.IsViewed, m.access, m.access)
	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return s, nil
}

func (m *SessionManager) Get(token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *SessionManager) Close(token string) {
	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		s.Close()
		delete(m.sessions, token)
	}
	m.mu.Unlock()
}

// janitor 定期回收闲置会话，避免倒计时 goroutine 悬挂
func (m *SessionManager) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for token, s := range m.sessions {
				if s.idleSince(now) > m.idleTTL {
					s.Close()
					delete(m.sessions, token)
				}
			}
			m.mu.Unlock()
		}
	}
}

// Shutdown 停止回收并关闭全部会话
func (m *SessionManager) Shutdown() {
	m.once.Do(func() { close(m.stop) })
	m.mu.Lock()
	for token, s := range m.sessions {
		s.Close()
		delete(m.sessions, token)
	}
	m.mu.Unlock()
}
