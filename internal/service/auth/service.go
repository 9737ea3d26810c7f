package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/email"
	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	"github.com/hirenbhut/social-api/internal/service/activity"
	"github.com/hirenbhut/social-api/internal/service/notification"
	"github.com/hirenbhut/social-api/pkg/auth"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
	"github.com/hirenbhut/social-api/pkg/logger"
	"github.com/hirenbhut/social-api/pkg/security"
	"github.com/hirenbhut/social-api/pkg/validator"
)

// Service handles registration, login and password changes. Activity
// recording on auth events is fire-and-forget through the async recorder.
type Service struct {
	users     repository.UserRepository
	jwtSvc    auth.JWTService
	hasher    security.PasswordHasher
	emailSvc  email.Service
	recorder  *activity.Recorder
	notifier  *notification.Service
	validator *validator.Validator
	logger    *logger.Logger
}

func NewService(
	users repository.UserRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
	emailSvc email.Service,
	recorder *activity.Recorder,
	notifier *notification.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		users:     users,
		jwtSvc:    jwtSvc,
		hasher:    hasher,
		emailSvc:  emailSvc,
		recorder:  recorder,
		notifier:  notifier,
		validator: validator.New(),
		logger:    log,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" validate:"required,email"`
	Username  string `json:"username" binding:"required,min=3,max=30" validate:"required,min=3,max=30"`
	FirstName string `json:"first_name" binding:"max=50" validate:"max=50"`
	LastName  string `json:"last_name" binding:"max=50" validate:"max=50"`
	Password  string `json:"password" binding:"required,min=8" validate:"required,min=8"`
}

type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

// Register creates the account, sends the welcome notification and email and
// records the confirmation activity. Only the account creation itself can
// fail the call.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.NewValidation("%s", err.Error())
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.recorder.Record(user.ID, model.ActivityAccountConfirmed, nil)

	if _, err := s.notifier.NotifyWithDefaults(ctx, user.ID, model.NotificationWelcome, nil); err != nil {
		s.logger.Error(err, "failed to send welcome notification", "user_id", user.ID.String())
	}
	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.DisplayName()); err != nil {
		s.logger.Error(err, "failed to send welcome email", "user_id", user.ID.String())
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, emailAddr, password string) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(emailAddr))
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	if !user.Active {
		return nil, apperrors.Unauthorized(nil)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	now := time.Now()
	user.LastSeenAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to update last seen", "user_id", user.ID.String())
	}

	token, err := s.jwtSvc.GenerateAccessToken(auth.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(user.ID, model.ActivitySignIn, nil)

	return &TokenResponse{AccessToken: token, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, userID uuid.UUID) {
	s.recorder.Record(userID, model.ActivitySignOut, nil)
}

// ChangePassword verifies the current password, stores the new hash and
// raises the high-priority security alert, which also exercises the push
// dispatch path.
func (s *Service) ChangePassword(ctx context.Context, user *model.User, current, next string) error {
	if err := s.hasher.Compare(user.PasswordHash, current); err != nil {
		return apperrors.Unauthorized(err)
	}
	if len(next) < security.MinPasswordLen {
		return apperrors.NewValidation("password must be at least %d characters", security.MinPasswordLen)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.recorder.Record(user.ID, model.ActivityPasswordChanged, nil)

	priority := model.PriorityHigh
	if _, err := s.notifier.Notify(ctx, user.ID, model.NotificationPasswordChanged,
		"Password Changed",
		"Your password was just changed. If this wasn't you, contact support immediately.",
		&notification.NotifyOptions{Priority: &priority},
	); err != nil {
		s.logger.Error(err, "failed to send password change notification", "user_id", user.ID.String())
	}
	if err := s.emailSvc.SendSecurityAlert(ctx, user.Email, "password changed"); err != nil {
		s.logger.Error(err, "failed to send security alert email", "user_id", user.ID.String())
	}

	return nil
}

func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	return s.jwtSvc.ValidateToken(token)
}
