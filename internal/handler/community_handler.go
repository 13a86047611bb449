package handler

import (
	"net/http"
	"strconv"

	"Hive_Community/internal/model"
	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type CommunityCreateReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Visibility  string `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	ImageURL    string `json:"image_url"`
}

type CommunityUpdateReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility"`
	ImageURL    *string `json:"image_url"`
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.Create(c.Request.Context(), userID, req.Name, req.Description, model.Visibility(req.Visibility), req.ImageURL)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          community.ID,
		"name":        community.Name,
		"description": community.Description,
		"visibility":  community.Visibility,
	})
}

// Update 只更新请求体里带的字段
func (h *CommunityHandler) Update(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CommunityUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Visibility != nil {
		fields["visibility"] = *req.Visibility
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "no fields to update"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), userID, communityID, fields); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	outcome, err := h.svc.Join(c.Request.Context(), userID, communityID)
	if err != nil {
		fail(c, err)
		return
	}

	// outcome 告诉前端渲染“已加入”还是“已申请”
	c.JSON(http.StatusOK, gin.H{"msg": "ok", "outcome": outcome})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Leave(c.Request.Context(), userID, communityID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) CancelRequest(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.CancelJoinRequest(c.Request.Context(), userID, communityID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Get(c *gin.Context) {
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	community, err := h.svc.Get(c.Request.Context(), communityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// MyRole 当前用户在社区内的角色，未入社 member=false
func (h *CommunityHandler) MyRole(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	role, isMember, err := h.svc.RoleOf(c.Request.Context(), communityID, userID)
	if err != nil {
		fail(c, err)
		return
	}
	if !isMember {
		c.JSON(http.StatusOK, gin.H{"member": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": true, "role": role.String()})
}
