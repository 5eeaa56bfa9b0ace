package errors

import (
	"errors"
)

var (
	ErrInvalidPhoneNumber     = errors.New("invalid phone number format")
	ErrPhoneAlreadyRegistered = errors.New("phone number already registered")
	ErrPhoneNotRegistered     = errors.New("phone number not registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrOTPNotFound            = errors.New("no OTP found, request a new one")
	ErrOTPExpired             = errors.New("OTP has expired")
	ErrTooManyOTPAttempts     = errors.New("too many failed OTP attempts")
	ErrSMSSendFailed          = errors.New("failed to send OTP")
	ErrStoreUnavailable       = errors.New("credential store unavailable")
	ErrInvalidSessionToken    = errors.New("invalid session token")
)
