package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/domain"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/dto"
	autherror "github.com/kalpajyotisaikia/sharpy-auth-service/internal/errors"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/phone"
	"github.com/kalpajyotisaikia/sharpy-auth-service/pkg/constant"
	"go.uber.org/zap"
)

// OTPVerificationError carries the user-facing verification message while
// wrapping the sentinel that classifies the failure.
type OTPVerificationError struct {
	reason string
	kind   error
}

func (e *OTPVerificationError) Error() string { return e.reason }
func (e *OTPVerificationError) Unwrap() error { return e.kind }

// UserService composes the credential store, password hasher, OTP service
// and session issuer into the registration and login flows.
type UserService struct {
	repo    domain.UserRepository
	hasher  PasswordHasher
	otp     *OTPService
	session SessionIssuer
	log     *zap.Logger
}

func NewUserService(repo domain.UserRepository, hasher PasswordHasher, otp *OTPService,
	session SessionIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		repo:    repo,
		hasher:  hasher,
		otp:     otp,
		session: session,
		log:     logger,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	normalized := phone.Format(input.Phone)
	if !phone.IsValid(normalized) {
		return nil, autherror.ErrInvalidPhoneNumber
	}

	exists, err := s.repo.Exists(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}
	if exists {
		return nil, autherror.ErrPhoneAlreadyRegistered
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Phone:        normalized,
		Email:        input.Email,
		School:       input.School,
		Class:        input.Class,
		Address:      input.Address,
		PasswordHash: passwordHash,
		IsPremium:    false,
		Coins:        constant.DefaultCoins,
		MaxDevices:   constant.DefaultMaxDevices,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("phone", user.Phone))

	return user, nil
}

func (s *UserService) LoginWithPassword(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	normalized := phone.Format(input.Phone)
	if !phone.IsValid(normalized) {
		return nil, autherror.ErrInvalidPhoneNumber
	}

	user, err := s.repo.GetByPhone(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}

	// Unknown phone and wrong password are indistinguishable to the caller.
	if user == nil || !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, autherror.ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// RequestOTP sends a login code to an already-registered phone number.
func (s *UserService) RequestOTP(ctx context.Context, rawPhone string) (*dto.OTPResponse, error) {
	normalized, err := s.registeredPhone(ctx, rawPhone)
	if err != nil {
		return nil, err
	}

	result, err := s.otp.Request(ctx, normalized)
	if err != nil {
		return nil, err
	}

	return &dto.OTPResponse{Message: result.Message, DemoCode: result.DemoCode}, nil
}

// ResendOTP replaces any pending challenge with a fresh code.
func (s *UserService) ResendOTP(ctx context.Context, rawPhone string) (*dto.OTPResponse, error) {
	normalized, err := s.registeredPhone(ctx, rawPhone)
	if err != nil {
		return nil, err
	}

	result, err := s.otp.Resend(ctx, normalized)
	if err != nil {
		return nil, err
	}

	return &dto.OTPResponse{Message: result.Message, DemoCode: result.DemoCode}, nil
}

func (s *UserService) LoginWithOTP(ctx context.Context, input dto.OTPVerifyInput) (*dto.TokenResponse, error) {
	normalized := phone.Format(input.Phone)
	if !phone.IsValid(normalized) {
		return nil, autherror.ErrInvalidPhoneNumber
	}

	ok, reason, verifyErr := s.otp.Verify(normalized, input.Code)
	if !ok {
		return nil, &OTPVerificationError{reason: reason, kind: verifyErr}
	}

	user, err := s.repo.GetByPhone(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}
	if user == nil {
		// Challenge verified but the account vanished in between.
		return nil, autherror.ErrPhoneNotRegistered
	}

	return s.issueSession(user)
}

func (s *UserService) registeredPhone(ctx context.Context, rawPhone string) (string, error) {
	normalized := phone.Format(rawPhone)
	if !phone.IsValid(normalized) {
		return "", autherror.ErrInvalidPhoneNumber
	}

	exists, err := s.repo.Exists(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}
	if !exists {
		return "", autherror.ErrPhoneNotRegistered
	}

	return normalized, nil
}

func (s *UserService) issueSession(user *domain.User) (*dto.TokenResponse, error) {
	token, expiresAt, err := s.session.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("session issued", zap.String("user_id", user.ID))

	return &dto.TokenResponse{
		SessionToken: token,
		ExpiresAt:    expiresAt,
		User:         toUserOutput(user),
	}, nil
}

// EarnCoins credits an activity reward and records it as a notification.
func (s *UserService) EarnCoins(ctx context.Context, userID string, input dto.EarnCoinsInput) (*dto.UserOutput, error) {
	if input.Amount < 0 {
		return nil, fmt.Errorf("coin amount must be non-negative")
	}

	if err := s.repo.AddCoins(ctx, userID, input.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}

	notification := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     "Coins Earned",
		Message:   fmt.Sprintf("You earned %d coins: %s", input.Amount, input.Activity),
		Type:      "info",
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddNotification(ctx, notification); err != nil {
		s.log.Warn("failed to record coin notification", zap.String("user_id", userID), zap.Error(err))
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}
	if user == nil {
		return nil, autherror.ErrPhoneNotRegistered
	}

	return toUserOutput(user), nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}
	if user == nil {
		return nil, autherror.ErrPhoneNotRegistered
	}

	return toUserOutput(user), nil
}

func (s *UserService) Notifications(ctx context.Context, userID string) ([]dto.NotificationOutput, error) {
	notifications, err := s.repo.GetNotifications(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
	}

	out := make([]dto.NotificationOutput, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, dto.NotificationOutput{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return out, nil
}

func toUserOutput(user *domain.User) *dto.UserOutput {
	return &dto.UserOutput{
		ID:        user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		Email:     user.Email,
		School:    user.School,
		Class:     user.Class,
		IsPremium: user.IsPremium,
		Coins:     user.Coins,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
