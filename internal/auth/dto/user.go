package dto

import (
	"time"
)

type UserOutput struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	School    string    `json:"school,omitempty"`
	Class     string    `json:"class,omitempty"`
	IsPremium bool      `json:"is_premium"`
	Coins     int       `json:"coins"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TokenResponse struct {
	SessionToken string      `json:"session_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         *UserOutput `json:"user,omitempty"`
}

type NotificationOutput struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
