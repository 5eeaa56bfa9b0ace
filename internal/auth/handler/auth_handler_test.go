package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/kalpajyotisaikia/sharpy-auth-service/config"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/domain"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/dto"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/handler"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/service"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type handlerFixture struct {
	repo     *mocks.MockUserRepository
	sessions *mocks.MockSessionIssuer
	app      *fiber.App
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockUserRepository(ctrl)
	sessions := mocks.NewMockSessionIssuer(ctrl)
	otp := service.NewOTPService(nil, config.DefaultOTPPolicy(), config.DeliveryModeDemo, zap.NewNop())
	userService := service.NewUserService(repo, service.LegacySHA256Hasher{}, otp, sessions, zap.NewNop())
	authHandler := handler.NewAuthHandler(userService, sessions)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	return &handlerFixture{repo: repo, sessions: sessions, app: app}
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) ([]byte, int) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return respBody, resp.StatusCode
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.repo.EXPECT().Exists(gomock.Any(), "+919876543210").Return(false, nil)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		body, status := postJSON(t, f.app, "/api/v1/register", dto.RegisterInput{
			Name:     "Asha",
			Phone:    "9876543210",
			Password: "secret1",
		})

		assert.Equal(t, fiber.StatusCreated, status)
		assert.Contains(t, string(body), "+919876543210")
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest("POST", "/api/v1/register", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.repo.EXPECT().Exists(gomock.Any(), "+919876543210").Return(true, nil)

		body, status := postJSON(t, f.app, "/api/v1/register", dto.RegisterInput{
			Phone:    "9876543210",
			Password: "secret1",
		})

		assert.Equal(t, fiber.StatusConflict, status)
		assert.Contains(t, string(body), "already registered")
	})

	t.Run("invalid phone", func(t *testing.T) {
		f := newHandlerFixture(t)

		_, status := postJSON(t, f.app, "/api/v1/register", dto.RegisterInput{
			Phone:    "12345",
			Password: "secret1",
		})

		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestLoginEndpoint(t *testing.T) {
	digest, err := service.LegacySHA256Hasher{}.Hash("secret1")
	require.NoError(t, err)

	storedUser := &domain.User{ID: "user-123", Phone: "+919876543210", PasswordHash: digest}

	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.repo.EXPECT().GetByPhone(gomock.Any(), "+919876543210").Return(storedUser, nil)
		f.sessions.EXPECT().Issue(storedUser).Return("session-token", time.Now().Add(time.Hour), nil)

		body, status := postJSON(t, f.app, "/api/v1/login", dto.LoginInput{
			Phone:    "+919876543210",
			Password: "secret1",
		})

		assert.Equal(t, fiber.StatusOK, status)

		var resp dto.TokenResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, "session-token", resp.SessionToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.repo.EXPECT().GetByPhone(gomock.Any(), "+919876543210").Return(storedUser, nil)

		body, status := postJSON(t, f.app, "/api/v1/login", dto.LoginInput{
			Phone:    "+919876543210",
			Password: "wrong",
		})

		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Contains(t, string(body), "invalid credentials")
	})

	t.Run("store unavailable", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.repo.EXPECT().GetByPhone(gomock.Any(), "+919876543210").Return(nil, errors.New("connection refused"))

		_, status := postJSON(t, f.app, "/api/v1/login", dto.LoginInput{
			Phone:    "+919876543210",
			Password: "secret1",
		})

		assert.Equal(t, fiber.StatusServiceUnavailable, status)
	})
}

func TestOTPEndpoints(t *testing.T) {
	t.Run("request for unregistered phone", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.repo.EXPECT().Exists(gomock.Any(), "+919876543210").Return(false, nil)

		body, status := postJSON(t, f.app, "/api/v1/otp/request", dto.OTPRequestInput{Phone: "9876543210"})

		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Contains(t, string(body), "not registered")
	})

	t.Run("request, verify wrong, then verify right", func(t *testing.T) {
		f := newHandlerFixture(t)
		storedUser := &domain.User{ID: "user-123", Phone: "+919876543210"}

		f.repo.EXPECT().Exists(gomock.Any(), "+919876543210").Return(true, nil)
		f.repo.EXPECT().GetByPhone(gomock.Any(), "+919876543210").Return(storedUser, nil)
		f.sessions.EXPECT().Issue(storedUser).Return("session-token", time.Now().Add(time.Hour), nil)

		body, status := postJSON(t, f.app, "/api/v1/otp/request", dto.OTPRequestInput{Phone: "9876543210"})
		require.Equal(t, fiber.StatusOK, status)

		var otpResp dto.OTPResponse
		require.NoError(t, json.Unmarshal(body, &otpResp))
		require.Len(t, otpResp.DemoCode, 6, "demo mode surfaces the code")

		wrongCode := "000000"
		if otpResp.DemoCode == wrongCode {
			wrongCode = "111111"
		}

		body, status = postJSON(t, f.app, "/api/v1/otp/verify", dto.OTPVerifyInput{
			Phone: "9876543210",
			Code:  wrongCode,
		})
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Contains(t, string(body), "2 attempts remaining")

		body, status = postJSON(t, f.app, "/api/v1/otp/verify", dto.OTPVerifyInput{
			Phone: "9876543210",
			Code:  otpResp.DemoCode,
		})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(body), "session-token")
	})

	t.Run("verify without a pending challenge", func(t *testing.T) {
		f := newHandlerFixture(t)

		body, status := postJSON(t, f.app, "/api/v1/otp/verify", dto.OTPVerifyInput{
			Phone: "9876543210",
			Code:  "482193",
		})

		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Contains(t, string(body), "No OTP found")
	})

	t.Run("resend", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.repo.EXPECT().Exists(gomock.Any(), "+919876543210").Return(true, nil)

		body, status := postJSON(t, f.app, "/api/v1/otp/resend", dto.OTPRequestInput{Phone: "9876543210"})

		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(body), "New OTP sent successfully!")
	})
}

func TestLogoutEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest("DELETE", "/api/v1/session", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthenticatedEndpoints(t *testing.T) {
	claims := &service.SessionClaims{UserID: "user-123", Phone: "+919876543210"}
	storedUser := &domain.User{ID: "user-123", Phone: "+919876543210", Coins: 12}

	t.Run("missing bearer token", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessions.EXPECT().Verify("bad-token").Return(nil, errors.New("bad signature"))

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer bad-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("profile", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessions.EXPECT().Verify("good-token").Return(claims, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), "user-123").Return(storedUser, nil)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var profile dto.UserOutput
		require.NoError(t, json.Unmarshal(body, &profile))
		assert.Equal(t, 12, profile.Coins)
	})

	t.Run("notifications", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessions.EXPECT().Verify("good-token").Return(claims, nil)
		f.repo.EXPECT().GetNotifications(gomock.Any(), "user-123", 50).Return([]domain.Notification{
			{ID: "n1", Title: "Welcome"},
		}, nil)

		req := httptest.NewRequest("GET", "/api/v1/me/notifications", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Welcome")
	})

	t.Run("earn coins", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessions.EXPECT().Verify("good-token").Return(claims, nil)
		f.repo.EXPECT().AddCoins(gomock.Any(), "user-123", 6).Return(nil)
		f.repo.EXPECT().AddNotification(gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().GetByID(gomock.Any(), "user-123").Return(storedUser, nil)

		body, err := json.Marshal(dto.EarnCoinsInput{Amount: 6, Activity: "watched a short"})
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/v1/me/coins", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer good-token")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
