package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/platefeed/platefeed/internal/services"
	"github.com/platefeed/platefeed/internal/utils"
	"gorm.io/gorm"
)

// CatalogHandler handles tag and ingredient reference routes
type CatalogHandler struct {
	DB *gorm.DB
}

// ListTags handles GET /api/tags
// @Summary List tags
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (h *CatalogHandler) ListTags(c *fiber.Ctx) error {
	tags, err := services.ListTags(h.DB)
	if err != nil {
		return domainErrorResponse(c, err, "listTags")
	}
	return c.Status(fiber.StatusOK).JSON(tags)
}

// GetTag handles GET /api/tags/:id
// @Summary Get a tag
// @Tags Catalog
// @Produce json
// @Param id path int true "Tag id"
// @Success 200 {object} models.Tag
// @Failure 404 {object} utils.RejectionResponseStruct
// @Router /tags/{id} [get]
func (h *CatalogHandler) GetTag(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "tag not found")
	}

	tag, err := services.GetTag(h.DB, id)
	if err != nil {
		return domainErrorResponse(c, err, "getTag")
	}
	return c.Status(fiber.StatusOK).JSON(tag)
}

// ListIngredients handles GET /api/ingredients
// @Summary List ingredients
// @Description Full reference list, optionally narrowed by a name prefix
// @Tags Catalog
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {array} models.Ingredient
// @Router /ingredients [get]
func (h *CatalogHandler) ListIngredients(c *fiber.Ctx) error {
	ingredients, err := services.ListIngredients(h.DB, c.Query("name"))
	if err != nil {
		return domainErrorResponse(c, err, "listIngredients")
	}
	return c.Status(fiber.StatusOK).JSON(ingredients)
}

// GetIngredient handles GET /api/ingredients/:id
// @Summary Get an ingredient
// @Tags Catalog
// @Produce json
// @Param id path int true "Ingredient id"
// @Success 200 {object} models.Ingredient
// @Failure 404 {object} utils.RejectionResponseStruct
// @Router /ingredients/{id} [get]
func (h *CatalogHandler) GetIngredient(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "ingredient not found")
	}

	ingredient, err := services.GetIngredient(h.DB, id)
	if err != nil {
		return domainErrorResponse(c, err, "getIngredient")
	}
	return c.Status(fiber.StatusOK).JSON(ingredient)
}
