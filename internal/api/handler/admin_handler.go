package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/chatthan/lastletter/internal/service"
	"github.com/chatthan/lastletter/pkg/response"
)

type loginRequest struct {
	PIN string `json:"pin" binding:"required,min=4,max=12"`
}

// Login 后台登录：PIN 换 JWT
// @Summary 后台登录
// @Tags 后台
// @Accept json
// @Produce json
// @Param request body loginRequest true "管理 PIN"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/admin/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !h.checkAdminPIN(req.PIN) {
		response.Unauthorized(c, "wrong pin")
		return
	}
	token, err := h.jwtMgr.Issue("admin")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token})
}

// ListFriends 收信人列表（含派生状态与访问计数）
// @Summary 收信人列表
// @Tags 后台
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/admin/friends [get]
func (h *Handler) ListFriends(c *gin.Context) {
	list, err := h.friendSvc.ListWithStatus(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}

// FriendStats 首页分区统计 total/viewed/scanned/locked
// @Summary 收信人状态统计
// @Tags 后台
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.DashboardStats}
// @Router /api/v1/admin/friends/stats [get]
func (h *Handler) FriendStats(c *gin.Context) {
	stats, err := h.friendSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, stats)
}

// CreateFriend 新建收信人
// @Summary 新建收信人
// @Tags 后台
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.FriendInput true "收信人信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/friends [post]
func (h *Handler) CreateFriend(c *gin.Context) {
	var in service.FriendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	f, err := h.friendSvc.Create(c.Request.Context(), &in)
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) || errors.Is(err, service.ErrInvalidSlug) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, f)
}

// GetFriend 收信人详情
// @Summary 收信人详情
// @Tags 后台
// @Produce json
// @Security BearerAuth
// @Param id path string true "收信人 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/friends/{id} [get]
func (h *Handler) GetFriend(c *gin.Context) {
	f, err := h.friendSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrFriendNotFound) {
			response.NotFound(c, "friend not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, f)
}

// UpdateFriend 更新收信人（slug 不可改）
// @Summary 更新收信人
// @Tags 后台
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "收信人 ID"
// @Param request body service.FriendInput true "收信人信息"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/friends/{id} [put]
func (h *Handler) UpdateFriend(c *gin.Context) {
	var in service.FriendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	f, err := h.friendSvc.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		if errors.Is(err, service.ErrFriendNotFound) {
			response.NotFound(c, "friend not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, f)
}

// DeleteFriend 删除收信人（访问记录由外键级联处理，后台专用）
// @Summary 删除收信人
// @Tags 后台
// @Produce json
// @Security BearerAuth
// @Param id path string true "收信人 ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/friends/{id} [delete]
func (h *Handler) DeleteFriend(c *gin.Context) {
	if err := h.friendSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// FriendVisits 单个收信人的访问记录，新在前
// @Summary 收信人访问记录
// @Tags 后台
// @Produce json
// @Security BearerAuth
// @Param id path string true "收信人 ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/friends/{id}/visits [get]
func (h *Handler) FriendVisits(c *gin.Context) {
	list, err := h.friendSvc.Visits(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}

// AllVisits 全量访问记录带收信人信息
// @Summary 访问记录总览
// @Tags 后台
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/admin/visits [get]
func (h *Handler) AllVisits(c *gin.Context) {
	list, err := h.friendSvc.AllVisits(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}

// FriendQR 生成分享二维码 PNG
// @Summary 分享二维码
// @Tags 后台
// @Produce png
// @Security BearerAuth
// @Param id path string true "收信人 ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/friends/{id}/qrcode [get]
func (h *Handler) FriendQR(c *gin.Context) {
	png, err := h.friendSvc.ShareQR(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrFriendNotFound) {
			response.NotFound(c, "friend not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	c.Data(200, "image/png", png)
}
