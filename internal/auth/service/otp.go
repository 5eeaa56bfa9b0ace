package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/kalpajyotisaikia/sharpy-auth-service/config"
	autherror "github.com/kalpajyotisaikia/sharpy-auth-service/internal/errors"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/sms"
	"go.uber.org/zap"
)

// User-facing verification messages.
const (
	msgOTPNotFound     = "No OTP found. Please request a new OTP."
	msgOTPExpired      = "OTP has expired. Please request a new one."
	msgOTPExhausted    = "Too many failed attempts. Please request a new OTP."
	msgOTPVerified     = "OTP verified successfully!"
	msgOTPSent         = "OTP sent successfully!"
	msgOTPResent       = "New OTP sent successfully!"
	msgInvalidOTPAfter = "Invalid OTP. %d attempts remaining."
)

// challenge is one pending verification for a phone number.
type challenge struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// DeliveryResult reports how a code went out. DemoCode is populated only in
// demo mode, where the code is surfaced to the caller instead of sent over
// SMS.
type DeliveryResult struct {
	Message  string
	DemoCode string
}

// OTPService owns the OTP challenge lifecycle: generation, delivery,
// verification, resend and cleanup. Challenges are process-local, keyed by
// phone number, and guarded by a mutex so distinct users can hold
// independent challenges. This is deliberately not a durable multi-process
// store.
type OTPService struct {
	sender sms.Sender
	policy config.OTPPolicy
	mode   string
	log    *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	challenges map[string]*challenge
}

func NewOTPService(sender sms.Sender, policy config.OTPPolicy, mode string, logger *zap.Logger) *OTPService {
	return &OTPService{
		sender:     sender,
		policy:     policy,
		mode:       mode,
		log:        logger,
		now:        time.Now,
		challenges: make(map[string]*challenge),
	}
}

// WithClock overrides the service's notion of time. Used in tests.
func (s *OTPService) WithClock(now func() time.Time) *OTPService {
	s.now = now
	return s
}

// GenerateCode produces a uniformly random numeric string, each digit drawn
// independently from 0-9. Not cryptographically hardened; only suitable for
// short-lived SMS challenges.
func GenerateCode(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

// Request generates a fresh code, delivers it and stores the challenge,
// superseding any pending one. Delivery failure leaves existing state
// untouched.
func (s *OTPService) Request(ctx context.Context, phone string) (*DeliveryResult, error) {
	return s.dispatch(ctx, phone, msgOTPSent)
}

// Resend is Request with the resend wording; the prior challenge is
// replaced wholesale.
func (s *OTPService) Resend(ctx context.Context, phone string) (*DeliveryResult, error) {
	return s.dispatch(ctx, phone, msgOTPResent)
}

func (s *OTPService) dispatch(ctx context.Context, phone, successMsg string) (*DeliveryResult, error) {
	code := GenerateCode(s.policy.CodeLength)

	result, err := s.deliver(ctx, phone, code)
	if err != nil {
		return nil, err
	}

	s.Store(phone, code)
	result.Message = successMsg
	return result, nil
}

func (s *OTPService) deliver(ctx context.Context, phone, code string) (*DeliveryResult, error) {
	if s.mode == config.DeliveryModeDemo {
		s.log.Info("demo OTP delivery, code surfaced to caller instead of SMS",
			zap.String("phone", phone))
		return &DeliveryResult{DemoCode: code}, nil
	}

	body := fmt.Sprintf("Your Sharpy Education verification code is: %s. Valid for %d minutes.",
		code, s.policy.ExpiryMinutes)
	if err := s.sender.Send(ctx, phone, body); err != nil {
		s.log.Warn("OTP SMS delivery failed", zap.String("phone", phone), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", autherror.ErrSMSSendFailed, err)
	}

	return &DeliveryResult{}, nil
}

// Store records a pending challenge for phone with a fresh expiry and a
// zeroed attempt counter, overwriting any prior challenge.
func (s *OTPService) Store(phone, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[phone] = &challenge{
		code:      code,
		expiresAt: s.now().Add(s.policy.Expiry()),
	}
}

// Verify checks enteredCode against the pending challenge for phone. The
// string is always the user-facing reason; the error classifies the
// failure and is nil on success. Expired and exhausted challenges are
// removed, as is a successfully verified one, so a code verifies at most
// once.
func (s *OTPService) Verify(phone, enteredCode string) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[phone]
	if !ok {
		return false, msgOTPNotFound, autherror.ErrOTPNotFound
	}

	if s.now().After(ch.expiresAt) {
		delete(s.challenges, phone)
		return false, msgOTPExpired, autherror.ErrOTPExpired
	}

	if ch.attempts >= s.policy.MaxAttempts {
		delete(s.challenges, phone)
		return false, msgOTPExhausted, autherror.ErrTooManyOTPAttempts
	}

	if ch.code == enteredCode {
		delete(s.challenges, phone)
		return true, msgOTPVerified, nil
	}

	ch.attempts++
	remaining := s.policy.MaxAttempts - ch.attempts
	return false, fmt.Sprintf(msgInvalidOTPAfter, remaining), autherror.ErrInvalidCredentials
}

// Cleanup removes challenges past expiry and returns how many it dropped.
// Housekeeping only; Verify checks expiry lazily regardless.
func (s *OTPService) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for phone, ch := range s.challenges {
		if now.After(ch.expiresAt) {
			delete(s.challenges, phone)
			removed++
		}
	}

	if removed > 0 {
		s.log.Info("cleaned up expired OTP challenges", zap.Int("removed", removed))
	}

	return removed
}
