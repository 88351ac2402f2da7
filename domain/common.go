package domain

import (
	"errors"
	"os"
)

const (
	RoleWorker = "worker"
	RoleAdmin  = "admin"
)

var (
	MessageFailedBodyRequest  = "failed to process request body"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"
	MessageAdminRequired      = "admin access required"

	JwtSecret = os.Getenv("JWT_SECRET")

	ErrParseUUID          = errors.New("failed to parse UUID")
	ErrUserNotAllowed     = errors.New("user not allowed")
	ErrTokenNotFound      = errors.New("failed to token not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrUnauthorizedAccess = errors.New("unauthorized access")
)
