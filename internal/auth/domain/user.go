package domain

import "time"

type User struct {
	ID           string
	Name         string
	Phone        string
	Email        string
	School       string
	Class        string
	Address      string
	PasswordHash string
	IsPremium    bool
	Coins        int
	MaxDevices   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      string
	IsRead    bool
	CreatedAt time.Time
}

// Session marks a completed password or OTP login. It lives for the
// duration of the issued token and is never persisted.
type Session struct {
	UserID        string
	Phone         string
	Authenticated bool
	IssuedAt      time.Time
	ExpiresAt     time.Time
}
