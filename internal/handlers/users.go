package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/platefeed/platefeed/internal/config"
	"github.com/platefeed/platefeed/internal/services"
	"github.com/platefeed/platefeed/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles user and subscription routes
type UserHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// List handles GET /api/users
// @Summary List user profiles
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.Page
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c, h.Cfg.PageSize)

	users, total, err := services.ListUsers(h.DB, viewerID(c), page, pageSize)
	if err != nil {
		return domainErrorResponse(c, err, "listUsers")
	}
	return c.Status(fiber.StatusOK).JSON(utils.NewPage(c, total, page, pageSize, users))
}

// Create handles POST /api/users
// @Summary Register a user profile
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.UserInput true "Profile fields"
// @Success 201 {object} services.UserProfile
// @Failure 400 {object} utils.RejectionResponseStruct
// @Router /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input services.UserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorsResponse(c, fiber.StatusBadRequest, "invalid profile payload")
	}

	profile, err := services.CreateUser(h.DB, input)
	if err != nil {
		return domainErrorResponse(c, err, "createUser")
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// Get handles GET /api/users/:id
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} services.UserProfile
// @Failure 404 {object} utils.RejectionResponseStruct
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "user not found")
	}

	profile, err := services.GetUser(h.DB, id, viewerID(c))
	if err != nil {
		return domainErrorResponse(c, err, "getUser")
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// Me handles GET /api/users/me
// @Summary Get the caller's profile
// @Tags Users
// @Produce json
// @Success 200 {object} services.UserProfile
// @Security CookieAuth
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user := currentUser(c)

	profile, err := services.GetUser(h.DB, user.ID, user.ID)
	if err != nil {
		return domainErrorResponse(c, err, "getMe")
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// Subscribe handles POST /api/users/:id/subscribe
// @Summary Follow an author
// @Tags Users
// @Produce json
// @Param id path int true "Author id"
// @Param recipes_limit query int false "Recipe preview size"
// @Success 201 {object} services.AuthorWithRecipes
// @Failure 400 {object} utils.RejectionResponseStruct
// @Failure 404 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /users/{id}/subscribe [post]
func (h *UserHandler) Subscribe(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "user not found")
	}
	recipesLimit := c.QueryInt("recipes_limit", services.DefaultSubscriptionRecipes)

	author, err := services.Subscribe(h.DB, viewerID(c), id, recipesLimit)
	if err != nil {
		return domainErrorResponse(c, err, "subscribe")
	}
	return c.Status(fiber.StatusCreated).JSON(author)
}

// Unsubscribe handles DELETE /api/users/:id/subscribe
// @Summary Unfollow an author
// @Tags Users
// @Param id path int true "Author id"
// @Success 204
// @Failure 400 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /users/{id}/subscribe [delete]
func (h *UserHandler) Unsubscribe(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "user not found")
	}

	if err := services.Unsubscribe(h.DB, viewerID(c), id); err != nil {
		return domainErrorResponse(c, err, "unsubscribe")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Subscriptions handles GET /api/users/subscriptions
// @Summary List followed authors
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipe preview size"
// @Success 200 {object} utils.Page
// @Security CookieAuth
// @Router /users/subscriptions [get]
func (h *UserHandler) Subscriptions(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c, h.Cfg.PageSize)
	recipesLimit := c.QueryInt("recipes_limit", services.DefaultSubscriptionRecipes)

	authors, total, err := services.ListSubscriptions(h.DB, viewerID(c), page, pageSize, recipesLimit)
	if err != nil {
		return domainErrorResponse(c, err, "listSubscriptions")
	}
	return c.Status(fiber.StatusOK).JSON(utils.NewPage(c, total, page, pageSize, authors))
}
