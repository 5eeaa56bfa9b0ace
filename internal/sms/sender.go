// Package sms delivers short text messages through an external gateway.
package sms

import "context"

//go:generate mockgen -destination=../mocks/mock_sms_sender.go -package=mocks github.com/kalpajyotisaikia/sharpy-auth-service/internal/sms Sender

// Sender pushes a message to a phone number. Implementations must not
// retry; callers decide how a failed delivery affects their state.
type Sender interface {
	Send(ctx context.Context, toPhone, body string) error
}
