package service

import "errors"

// 业务错误字典，handler 据此映射 HTTP 状态码和提示文案
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized for this action")
	ErrInsufficientRole = errors.New("insufficient role for this target")

	ErrNotFound      = errors.New("resource not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotAMember    = errors.New("not a member of this community")
	ErrNameTaken     = errors.New("community name already taken")
	ErrAlreadyMember = errors.New("already a member of this community")

	ErrAlreadyRequested = errors.New("join request already pending")
	ErrAlreadyInvited   = errors.New("invitation already pending")
	ErrNoPendingRequest = errors.New("no pending join request")

	ErrLastAdmin = errors.New("community must keep at least one admin")

	ErrValidation     = errors.New("invalid request")
	ErrTooManyTargets = errors.New("too many invite targets")
)
