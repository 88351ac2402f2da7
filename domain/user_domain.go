package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessGetMe          = "user profile retrieved successfully"
	MessageSuccessForgotPassword = "password reset email sent"
	MessageSuccessResetPassword  = "password reset successfully"

	MessageFailedRegister       = "failed to register user"
	MessageFailedLogin          = "failed to login"
	MessageFailedGetMe          = "failed to retrieve user profile"
	MessageFailedForgotPassword = "failed to send password reset email"
	MessageFailedResetPassword  = "failed to reset password"

	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("role must be worker or admin")
)

type (
	RegisterRequest struct {
		Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
		Email    string `json:"email" validate:"required,email,max=100"`
		Password string `json:"password" validate:"required,min=6"`
		FullName string `json:"full_name" validate:"omitempty,max=100"`
		Role     string `json:"role" validate:"omitempty,oneof=worker admin"`
	}

	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		FullName  string    `json:"full_name,omitempty"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"created_at"`
	}

	// The reset mail always goes to the address stored on the account, so the
	// request carries no destination field.
	ForgotPasswordRequest struct {
		Username string `json:"username" validate:"required"`
	}

	ResetPasswordRequest struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=6"`
	}
)
