package handler

import (
	"net/http"

	"Hive_Community/internal/model"
	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	svc *service.MemberService
}

type RoleUpdateReq struct {
	Role string `json:"role" binding:"required"`
}

type HandleReq struct {
	Action string `json:"action" binding:"required,oneof=accept reject"`
}

func NewMemberHandler(svc *service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(c.Request.Context(), userID, communityID)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(members))
	for _, m := range members {
		out = append(out, gin.H{
			"id":        m.ID,
			"user_id":   m.UserID,
			"role":      m.Role.String(),
			"joined_at": m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"list": out})
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "memberId")
	if !ok {
		return
	}

	var req RoleUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.UpdateRole(c.Request.Context(), userID, communityID, memberID, role); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "memberId")
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), userID, communityID, memberID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *MemberHandler) ListRequests(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	communityID, ok := paramID(c, "id")
	if !ok {
		return
	}

	requests, err := h.svc.ListPendingRequests(c.Request.Context(), userID, communityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": requests})
}

func (h *MemberHandler) HandleRequest(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return
	}

	var req HandleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.HandleJoinRequest(c.Request.Context(), userID, requestID, req.Action == "accept"); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
