package handler

import (
	"net/http"

	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	svc *service.InviteService
}

type InviteReq struct {
	Username string `json:"username" binding:"required"`
}

type BulkInviteReq struct {
	Usernames []string `json:"usernames" binding:"required"`
}

func NewInvitationHandler(svc *service.InviteService) *InvitationHandler {
	return &InvitationHandler{svc: svc}
}

func (h *InvitationHandler) Invite(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req InviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	inv, err := h.svc.Invite(c.Request.Context(), userID, communityID, req.Username)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": inv.ID, "status": inv.Status})
}

func (h *InvitationHandler) BulkInvite(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req BulkInviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	result, err := h.svc.BulkInvite(c.Request.Context(), userID, communityID, req.Usernames)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Handle 被邀请人接受或拒绝邀请
func (h *InvitationHandler) Handle(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	invitationID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req HandleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.HandleInvitation(c.Request.Context(), userID, invitationID, req.Action == "accept"); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Mine 查看自己收到的 pending 邀请
func (h *InvitationHandler) Mine(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	list, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
