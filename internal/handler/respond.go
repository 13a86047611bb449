package handler

import (
	"errors"
	"net/http"

	"Hive_Community/internal/model"
	"Hive_Community/internal/service"

	"github.com/gin-gonic/gin"
)

// fail 业务错误统一映射为 HTTP 状态码和可操作的提示文案，
// 未知错误一律 500 加通用重试提示，不往外漏内部细节
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, model.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrTooManyTargets):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "too many invite targets: at most 50 usernames per call"})
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrInsufficientRole):
		c.JSON(http.StatusForbidden, gin.H{"msg": "moderators can only remove ordinary members"})
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNotAMember),
		errors.Is(err, service.ErrNoPendingRequest):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrLastAdmin):
		c.JSON(http.StatusConflict, gin.H{"msg": "cannot proceed: you are the only admin, transfer the admin role first"})
	case errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrAlreadyRequested),
		errors.Is(err, service.ErrAlreadyInvited):
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "temporary failure, please retry"})
	}
}

// actorID 取中间件注入的 user_id
func actorID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		fail(c, service.ErrNotAuthenticated)
		return 0, false
	}
	id, ok := v.(uint64)
	if !ok || id == 0 {
		fail(c, service.ErrNotAuthenticated)
		return 0, false
	}
	return id, true
}
