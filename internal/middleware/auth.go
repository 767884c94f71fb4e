package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/platefeed/platefeed/internal/config"
	"github.com/platefeed/platefeed/internal/models"
	"github.com/platefeed/platefeed/internal/services"
	"github.com/platefeed/platefeed/internal/types"
	"gorm.io/gorm"
)

// AuthRequired validates the session cookie and resolves the local user
// profile; requests without a valid session or profile are rejected.
func AuthRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c, db, cfg)
		if err != nil {
			return err
		}
		c.Locals("user", user)
		return c.Next()
	}
}

// AuthOptional resolves the caller when a valid session cookie is present
// and continues anonymously otherwise.
func AuthOptional(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := authenticate(c, db, cfg); err == nil {
			c.Locals("user", user)
		}
		return c.Next()
	}
}

// authenticate performs the session check against the Authorizer service
// and joins the account to its local profile by email.
func authenticate(c *fiber.Ctx, db *gorm.DB, cfg *config.Config) (*models.User, error) {
	session := c.Cookies("cookie_session")
	if session == "" {
		return nil, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    "authorization.user",
		}
	}

	// Lazy client init: the redirect URL needs a real request's protocol
	// and host.
	if !services.IsAuthorizerInitialized() {
		if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
			return nil, &types.CustomError{
				Code:    fiber.StatusInternalServerError,
				Message: fmt.Sprintf("Authorizer unavailable: %v", err),
				Type:    "authorization.init",
			}
		}
	}

	email, err := services.ValidateSession(session, []string{"user"})
	if err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    "authorization.user",
		}
	}

	user, err := services.UserByEmail(db, email)
	if err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "No profile registered for the authenticated account",
			Type:    "authorization.profile",
		}
	}

	return user, nil
}
