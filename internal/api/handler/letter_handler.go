package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chatthan/lastletter/internal/service"
	"github.com/chatthan/lastletter/pkg/response"
)

type letterPageResponse struct {
	Slug      string        `json:"slug"`
	Name      string        `json:"name"`
	Phase     service.Phase `json:"phase"`
	UnlockAt  time.Time     `json:"unlock_at"`
	Remaining int64         `json:"remaining_seconds"`
	IsViewed  bool          `json:"is_viewed"`
}

type letterContentResponse struct {
	Name       string   `json:"name"`
	Content    string   `json:"content"`
	ImageURLs  []string `json:"image_urls,omitempty"`
	SpotifyURL string   `json:"spotify_url,omitempty"`
	BgmURL     string   `json:"bgm_url,omitempty"`
}

// GetLetter 信件页首次加载：返回阶段信息并异步记一条访问
// @Summary 信件页状态
// @Tags 信件
// @Produce json
// @Param slug path string true "收信人 slug"
// @Success 200 {object} response.Response{data=letterPageResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/letters/{slug} [get]
func (h *Handler) GetLetter(c *gin.Context) {
	slug := c.Param("slug")
	f, err := h.access.Friend(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrFriendNotFound) {
			response.NotFound(c, "letter not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	// fire & forget：访问日志绝不阻塞页面
	h.visits.Enqueue(slug, clientIP(c), c.GetHeader("User-Agent"))

	now := time.Now()
	unlockAt := h.access.UnlockAt(f)
	remaining := int64(0)
	if d := unlockAt.Sub(now); d > 0 {
		remaining = int64(d.Seconds())
	}
	response.Success(c, letterPageResponse{
		Slug:      f.Slug,
		Name:      f.Name,
		Phase:     h.access.PhaseAt(f, now),
		UnlockAt:  unlockAt,
		Remaining: remaining,
		IsViewed:  f.IsViewed,
	})
}

type passcodeRequest struct {
	Passcode string `json:"passcode" binding:"required,len=4,numeric"`
}

type passcodeResponse struct {
	Valid  bool                   `json:"valid"`
	Error  string                 `json:"error,omitempty"`
	Letter *letterContentResponse `json:"letter,omitempty"`
}

// SubmitPasscode 无会话口令提交：通过即返回信件内容并在首次时置位已读
// @Summary 提交口令
// @Tags 信件
// @Accept json
// @Produce json
// @Param slug path string true "收信人 slug"
// @Param request body passcodeRequest true "4 位口令"
// @Success 200 {object} response.Response{data=passcodeResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/letters/{slug}/passcode [post]
func (h *Handler) SubmitPasscode(c *gin.Context) {
	var req passcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	slug := c.Param("slug")
	f, ok, err := h.access.SubmitPasscode(c.Request.Context(), slug, req.Passcode)
	if err != nil {
		if errors.Is(err, service.ErrFriendNotFound) {
			response.NotFound(c, "letter not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	if !ok {
		// 口令错误可无限重试，固定文案
		response.Success(c, passcodeResponse{Valid: false, Error: service.MsgWrongPasscode})
		return
	}
	response.Success(c, passcodeResponse{
		Valid: true,
		Letter: &letterContentResponse{
			Name:       f.Name,
			Content:    f.Content,
			ImageURLs:  f.ImageURLs,
			SpotifyURL: f.SpotifyURL,
			BgmURL:     f.BgmURL,
		},
	})
}

type sessionStateResponse struct {
	Token     string        `json:"token"`
	Phase     service.Phase `json:"phase"`
	Error     string        `json:"error"`
	Remaining int64         `json:"remaining_seconds"`
}

func sessionState(s *service.Session) sessionStateResponse {
	return sessionStateResponse{
		Token:     s.Token,
		Phase:     s.Phase(),
		Error:     s.Err(),
		Remaining: int64(s.Remaining().Seconds()),
	}
}

// OpenSession 建立信件页会话（倒计时 -> 口令 -> 展信 状态机）
// @Summary 打开信件会话
// @Tags 信件
// @Produce json
// @Param slug path string true "收信人 slug"
// @Success 200 {object} response.Response{data=sessionStateResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/letters/{slug}/session [post]
func (h *Handler) OpenSession(c *gin.Context) {
	s, err := h.sessions.Open(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrFriendNotFound) {
			response.NotFound(c, "letter not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, sessionState(s))
}

// GetSession 读取会话当前阶段（倒计时轮询用）
// @Summary 查询会话状态
// @Tags 信件
// @Produce json
// @Param token path string true "会话 token"
// @Success 200 {object} response.Response{data=sessionStateResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/sessions/{token} [get]
func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("token"))
	if err != nil {
		response.NotFound(c, "session not found")
		return
	}
	response.Success(c, sessionState(s))
}

// SessionPasscode 会话内提交口令；同一会话同时只允许一次在途验证
// @Summary 会话内提交口令
// @Tags 信件
// @Accept json
// @Produce json
// @Param token path string true "会话 token"
// @Param request body passcodeRequest true "4 位口令"
// @Success 200 {object} response.Response{data=passcodeResponse}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/sessions/{token}/passcode [post]
func (h *Handler) SessionPasscode(c *gin.Context) {
	var req passcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	s, err := h.sessions.Get(c.Param("token"))
	if err != nil {
		response.NotFound(c, "session not found")
		return
	}
	ok, err := s.SubmitPasscode(c.Request.Context(), req.Passcode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVerifyInFlight):
			response.Conflict(c, "verification already in flight")
		case errors.Is(err, service.ErrStillLocked):
			response.BadRequest(c, err.Error())
		default:
			// 校验链路出错也按固定文案处理，收信人可重试
			response.Success(c, passcodeResponse{Valid: false, Error: s.Err()})
		}
		return
	}
	if !ok {
		response.Success(c, passcodeResponse{Valid: false, Error: s.Err()})
		return
	}
	f, err := h.access.Friend(c.Request.Context(), s.Slug())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, passcodeResponse{
		Valid: true,
		Letter: &letterContentResponse{
			Name:       f.Name,
			Content:    f.Content,
			ImageURLs:  f.ImageURLs,
			SpotifyURL: f.SpotifyURL,
			BgmURL:     f.BgmURL,
		},
	})
}

// CloseSession 关闭会话并停掉倒计时
// @Summary 关闭会话
// @Tags 信件
// @Param token path string true "会话 token"
// @Success 200 {object} response.Response
// @Router /api/v1/sessions/{token} [delete]
func (h *Handler) CloseSession(c *gin.Context) {
	h.sessions.Close(c.Param("token"))
	response.Success(c, nil)
}
