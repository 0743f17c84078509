package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/chatthan/lastletter/internal/service"
	"github.com/chatthan/lastletter/pkg/response"
)

// CreateReply 收信人留言（is_private 为真时仅后台可见）
// @Summary 发送回信
// @Tags 回信
// @Accept json
// @Produce json
// @Param slug path string true "收信人 slug"
// @Param request body service.ReplyInput true "回信内容"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/letters/{slug}/replies [post]
func (h *Handler) CreateReply(c *gin.Context) {
	var in service.ReplyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.replySvc.Create(c.Request.Context(), c.Param("slug"), &in)
	if err != nil {
		if errors.Is(err, service.ErrFriendNotFound) {
			response.NotFound(c, "letter not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, r)
}

// ListReplies 公开回信流（不含私密回信），新在前
// @Summary 公开回信列表
// @Tags 回信
// @Produce json
// @Param slug path string true "收信人 slug"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/letters/{slug}/replies [get]
func (h *Handler) ListReplies(c *gin.Context) {
	list, err := h.replySvc.PublicFeed(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrFriendNotFound) {
			response.NotFound(c, "letter not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}

// AllReplies 后台收件箱：全部回信带收信人信息
// @Summary 后台回信列表
// @Tags 后台
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/admin/replies [get]
func (h *Handler) AllReplies(c *gin.Context) {
	list, err := h.replySvc.All(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}

// UnreadCount 未读回信数；后台定时轮询，短 TTL 缓存
// @Summary 未读回信数
// @Tags 后台
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/admin/replies/unread_count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	cnt, err := h.replySvc.UnreadCount(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"count": cnt})
}

// MarkReplyRead 标记单条回信已读
// @Summary 标记回信已读
// @Tags 后台
// @Produce json
// @Security BearerAuth
// @Param id path string true "回信 ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/replies/{id}/read [put]
func (h *Handler) MarkReplyRead(c *gin.Context) {
	if err := h.replySvc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
