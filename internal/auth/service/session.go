package service

//go:generate mockgen -destination=../../mocks/mock_session_issuer.go -package=mocks github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/service SessionIssuer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/domain"
	autherror "github.com/kalpajyotisaikia/sharpy-auth-service/internal/errors"
)

// SessionIssuer produces and checks authenticated-session markers.
type SessionIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
	Verify(tokenString string) (*SessionClaims, error)
}

// SessionService issues HS256-signed session tokens. Tokens are stateless:
// logout is the client discarding its copy.
type SessionService struct {
	secret string
	expiry time.Duration
}

type SessionClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	IsPremium bool   `json:"is_premium"`
}

func NewSessionService(secret string, expiryMinutes int) *SessionService {
	return &SessionService{
		secret: secret,
		expiry: time.Duration(expiryMinutes) * time.Minute,
	}
}

func (s *SessionService) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	claims := SessionClaims{
		UserID:    user.ID,
		Phone:     user.Phone,
		Name:      user.Name,
		IsPremium: user.IsPremium,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// Verify parses and validates a session token string.
func (s *SessionService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", autherror.ErrInvalidSessionToken, err)
	}

	if !token.Valid {
		return nil, autherror.ErrInvalidSessionToken
	}

	return claims, nil
}
