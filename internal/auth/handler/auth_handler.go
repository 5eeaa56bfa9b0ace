package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/dto"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/service"
	autherror "github.com/kalpajyotisaikia/sharpy-auth-service/internal/errors"
)

type AuthHandler struct {
	userService *service.UserService
	sessions    service.SessionIssuer
}

func NewAuthHandler(userService *service.UserService, sessions service.SessionIssuer) *AuthHandler {
	return &AuthHandler{userService: userService, sessions: sessions}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"phone": user.Phone,
		"name":  user.Name,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	tokenResponse, err := h.userService.LoginWithPassword(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse)
}

func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var input dto.OTPRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	resp, err := h.userService.RequestOTP(c.Context(), input.Phone)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var input dto.OTPRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	resp, err := h.userService.ResendOTP(c.Context(), input.Phone)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var input dto.OTPVerifyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	tokenResponse, err := h.userService.LoginWithOTP(c.Context(), input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse)
}

// Logout acknowledges the end of a session. Tokens are stateless, so the
// client discarding its copy is what actually ends the session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "logged out",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := sessionClaims(c)

	profile, err := h.userService.GetProfile(c.Context(), claims.UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *AuthHandler) MyNotifications(c *fiber.Ctx) error {
	claims := sessionClaims(c)

	notifications, err := h.userService.Notifications(c.Context(), claims.UserID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(notifications)
}

func (h *AuthHandler) EarnCoins(c *fiber.Ctx) error {
	claims := sessionClaims(c)

	var input dto.EarnCoinsInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	profile, err := h.userService.EarnCoins(c.Context(), claims.UserID, input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

// RequireSession verifies the bearer session token and stashes its claims
// for the handlers behind it.
func (h *AuthHandler) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims, err := h.sessions.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": autherror.ErrInvalidSessionToken.Error(),
			})
		}

		c.Locals("session", claims)
		return c.Next()
	}
}

func sessionClaims(c *fiber.Ctx) *service.SessionClaims {
	claims, _ := c.Locals("session").(*service.SessionClaims)
	return claims
}

// errorResponse maps the error taxonomy onto HTTP statuses, keeping the
// specific human-readable reason in the body.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, autherror.ErrInvalidPhoneNumber):
		status = fiber.StatusBadRequest
	case errors.Is(err, autherror.ErrPhoneAlreadyRegistered):
		status = fiber.StatusConflict
	case errors.Is(err, autherror.ErrPhoneNotRegistered):
		status = fiber.StatusNotFound
	case errors.Is(err, autherror.ErrTooManyOTPAttempts):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, autherror.ErrInvalidCredentials),
		errors.Is(err, autherror.ErrOTPNotFound),
		errors.Is(err, autherror.ErrOTPExpired),
		errors.Is(err, autherror.ErrInvalidSessionToken):
		status = fiber.StatusUnauthorized
	case errors.Is(err, autherror.ErrSMSSendFailed):
		status = fiber.StatusBadGateway
	case errors.Is(err, autherror.ErrStoreUnavailable):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
