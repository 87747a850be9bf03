package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotours/internal/apperrors"
	"gotours/internal/config"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"
	"gotours/pkg/mailer"
)

type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"password_current" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type AuthService struct {
	userRepo interfaces.UserRepository
	mailer   *mailer.Mailer
	config   *config.Config
	logger   *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, mail *mailer.Mailer, cfg *config.Config, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mailer:   mail,
		config:   cfg,
		logger:   log,
	}
}

// Signup registers a new user and signs them in. The role is always
// "user"; elevated roles are granted by an admin afterwards.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest, ip string) (*models.User, string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, "", apperrors.Validation(err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleUser,
		Active:   true,
	}
	if err := user.HashPassword(s.config.Security.BcryptCost); err != nil {
		return nil, "", apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.LogAuthEvent("signup", &user.ID, ip, true)

	// A failed welcome email must not fail the signup.
	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, user.Email, user.Name); err != nil {
			s.logger.WithError(err).WithUserID(user.ID).Warn("failed to send welcome email")
		}
	}

	return user, token, nil
}

// Login verifies credentials and mints a token. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, ip string) (*models.User, string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, "", apperrors.Validation(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		s.logger.LogAuthEvent("login", nil, ip, false)
		return nil, "", apperrors.Unauthorized(utils.ErrInvalidCredentials)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.LogAuthEvent("login", &user.ID, ip, true)
	return user, token, nil
}

// ForgotPassword issues a reset token and emails the reset link. If
// the email cannot be sent the token is rolled back so the stored
// state never references an email that was never delivered.
func (s *AuthService) ForgotPassword(ctx context.Context, email, ip string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return apperrors.NotFound("user")
	}

	resetToken := user.CreatePasswordResetToken(s.config.Security.ResetTokenTTL)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", s.config.App.BaseURL, resetToken)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, resetURL, s.config.Security.ResetTokenTTL); err != nil {
		user.ClearPasswordReset()
		if saveErr := s.userRepo.Save(ctx, user); saveErr != nil {
			s.logger.WithError(saveErr).WithUserID(user.ID).Error("failed to roll back reset token")
		}
		return apperrors.Internal(fmt.Errorf("failed to send reset email: %w", err))
	}

	s.logger.LogAuthEvent("forgot_password", &user.ID, ip, true)
	return nil
}

// ResetPassword consumes a reset token and sets the new password,
// signing the user in.
func (s *AuthService) ResetPassword(ctx context.Context, token string, req *ResetPasswordRequest, ip string) (*models.User, string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, "", apperrors.Validation(err)
	}

	user, err := s.userRepo.GetByResetToken(ctx, utils.HashToken(token))
	if err != nil {
		return nil, "", apperrors.BadRequest("Token is invalid or has expired")
	}

	user.Password = req.Password
	if err := user.HashPassword(s.config.Security.BcryptCost); err != nil {
		return nil, "", apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	user.MarkPasswordChanged()
	user.ClearPasswordReset()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, "", err
	}

	jwtToken, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.LogAuthEvent("reset_password", &user.ID, ip, true)
	return user, jwtToken, nil
}

// UpdatePassword changes the password of a logged-in user after
// re-verifying the current one, and mints a fresh token.
func (s *AuthService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, req *UpdatePasswordRequest, ip string) (*models.User, string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, "", apperrors.Validation(err)
	}

	// Fetch by id through the collection to get the password hash; the
	// cached read path strips it.
	current, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	user, err := s.userRepo.GetByEmail(ctx, current.Email)
	if err != nil {
		return nil, "", err
	}

	if !user.CheckPassword(req.PasswordCurrent) {
		s.logger.LogAuthEvent("update_password", &user.ID, ip, false)
		return nil, "", apperrors.Unauthorized("Your current password is wrong")
	}

	user.Password = req.Password
	if err := user.HashPassword(s.config.Security.BcryptCost); err != nil {
		return nil, "", apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	user.MarkPasswordChanged()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.LogAuthEvent("update_password", &user.ID, ip, true)
	return user, token, nil
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	token, err := utils.GenerateToken(user.ID, string(user.Role), s.config.Security.JWTSecret, s.config.Security.JWTTokenTTL)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("failed to sign token: %w", err))
	}
	return token, nil
}
