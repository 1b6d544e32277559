package services

import "errors"

// Service-level failures. Controllers translate these into HTTP status codes;
// services never swallow them.
var (
	ErrInvalidOrExpiredInvitation = errors.New("INVALID_OR_EXPIRED_INVITATION")
	ErrInvitationNotPending       = errors.New("INVITATION_NOT_PENDING")
	ErrRoleNotAllowed             = errors.New("ROLE_NOT_ALLOWED")
	ErrInvalidEmail               = errors.New("INVALID_EMAIL")

	ErrColumnSetMismatch = errors.New("COLUMN_SET_MISMATCH")
	ErrCrossProjectMove  = errors.New("CROSS_PROJECT_MOVE")
	ErrInvalidPosition   = errors.New("INVALID_POSITION")
)
