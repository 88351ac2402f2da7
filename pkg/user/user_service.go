package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rail-qr-backend/domain"
	"rail-qr-backend/entities"
	"rail-qr-backend/internal/utils"
	"rail-qr-backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	}

	// Mailer delivers the password-reset mail.
	Mailer interface {
		Send(to, subject, body string) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		mailer         Mailer
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, mailer Mailer) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserResponse{}, domain.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleWorker
	}
	if role != domain.RoleWorker && role != domain.RoleAdmin {
		return domain.UserResponse{}, domain.ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	newUser := &entities.User{
		ID:       uuid.New(),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		FullName: req.FullName,
		Role:     role,
	}

	if err := s.userRepository.CreateUser(ctx, newUser); err != nil {
		return domain.UserResponse{}, err
	}

	return toUserResponse(newUser), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	found, err := s.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	accessToken := s.jwtService.GenerateTokenUser(found.ID.String(), found.Role)

	return domain.LoginResponse{
		Token: accessToken,
		User:  toUserResponse(found),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	found, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(found), nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	found, err := s.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	resetToken, err := s.jwtService.GenerateTokenForgetPassword(map[string]any{
		"user_id": found.ID.String(),
	}, 30*time.Minute)
	if err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", utils.GetConfig("APP_URL"), resetToken)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Click <a href=%q>here</a> to reset your password. The link expires in 30 minutes.</p>",
		found.Username, resetLink,
	)

	// Only the address stored on the account ever receives a reset token.
	return s.mailer.Send(found.Email, "Password reset", body)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenForgetPassword(req.Token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return domain.ErrTokenInvalid
	}

	found, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return err
	}
	found.Password = string(hashed)

	return s.userRepository.UpdateUser(ctx, found)
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
