// recipes.go
//
// Recipe sharing data service for the Platefeed project
// Copyright (c) 2026 Platefeed Authors
//
// This file is part of platefeed.
// platefeed is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// platefeed is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with platefeed.
// If not, see <https://www.gnu.org/licenses/>.

package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/platefeed/platefeed/internal/config"
	"github.com/platefeed/platefeed/internal/services"
	"github.com/platefeed/platefeed/internal/utils"
	"gorm.io/gorm"
)

// RecipeHandler handles recipe routes
type RecipeHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// List handles GET /api/recipes
// @Summary List recipes
// @Description Paginated recipe listing filtered by tags, author, favorited and cart state
// @Tags Recipes
// @Produce json
// @Param tags query string false "Tag slugs (repeatable or comma-separated, OR semantics)"
// @Param author query int false "Author id"
// @Param is_favorited query int false "1 restricts to the caller's favorites"
// @Param is_in_shopping_cart query int false "1 restricts to the caller's cart"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.Page
// @Router /recipes [get]
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	filter := services.RecipeFilter{
		TagSlugs:  parseTagSlugs(c),
		AuthorID:  uint64(c.QueryInt("author", 0)),
		Favorited: parseBoolParam(c, "is_favorited"),
		InCart:    parseBoolParam(c, "is_in_shopping_cart"),
		UserID:    viewerID(c),
	}
	page, pageSize := parsePagination(c, h.Cfg.PageSize)

	recipes, total, err := services.ListRecipes(h.DB, filter, page, pageSize)
	if err != nil {
		return domainErrorResponse(c, err, "listRecipes")
	}

	return c.Status(fiber.StatusOK).JSON(utils.NewPage(c, total, page, pageSize, recipes))
}

// Get handles GET /api/recipes/:id
// @Summary Get a recipe
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe id"
// @Success 200 {object} services.RecipeDetail
// @Failure 404 {object} utils.RejectionResponseStruct
// @Router /recipes/{id} [get]
func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "recipe not found")
	}

	recipe, err := services.GetRecipe(h.DB, id, viewerID(c))
	if err != nil {
		return domainErrorResponse(c, err, "getRecipe")
	}
	return c.Status(fiber.StatusOK).JSON(recipe)
}

// Create handles POST /api/recipes
// @Summary Publish a recipe
// @Tags Recipes
// @Accept json
// @Produce json
// @Param body body services.RecipeInput true "Recipe fields"
// @Success 201 {object} services.RecipeDetail
// @Failure 400 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /recipes [post]
func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorsResponse(c, fiber.StatusBadRequest, "invalid recipe payload")
	}

	recipe, err := services.CreateRecipe(h.DB, h.Cfg.MediaRoot, viewerID(c), input)
	if err != nil {
		return domainErrorResponse(c, err, "createRecipe")
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// Update handles PATCH /api/recipes/:id
// @Summary Edit a recipe (author only)
// @Tags Recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe id"
// @Param body body services.RecipeInput true "Recipe fields"
// @Success 200 {object} services.RecipeDetail
// @Failure 400 {object} utils.RejectionResponseStruct
// @Failure 403 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /recipes/{id} [patch]
func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "recipe not found")
	}

	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorsResponse(c, fiber.StatusBadRequest, "invalid recipe payload")
	}

	recipe, err := services.UpdateRecipe(h.DB, h.Cfg.MediaRoot, viewerID(c), id, input)
	if err != nil {
		return domainErrorResponse(c, err, "updateRecipe")
	}
	return c.Status(fiber.StatusOK).JSON(recipe)
}

// Delete handles DELETE /api/recipes/:id
// @Summary Delete a recipe (author only)
// @Tags Recipes
// @Param id path int true "Recipe id"
// @Success 204
// @Failure 403 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "recipe not found")
	}

	if err := services.DeleteRecipe(h.DB, viewerID(c), id); err != nil {
		return domainErrorResponse(c, err, "deleteRecipe")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Favorite handles POST /api/recipes/:id/favorite
// @Summary Favorite a recipe
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe id"
// @Success 201 {object} services.RecipeSummary
// @Failure 400 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /recipes/{id}/favorite [post]
func (h *RecipeHandler) Favorite(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "recipe not found")
	}

	summary, err := services.AddFavorite(h.DB, viewerID(c), id)
	if err != nil {
		return domainErrorResponse(c, err, "addFavorite")
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// Unfavorite handles DELETE /api/recipes/:id/favorite
// @Summary Remove a recipe from favorites
// @Tags Recipes
// @Param id path int true "Recipe id"
// @Success 204
// @Failure 400 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /recipes/{id}/favorite [delete]
func (h *RecipeHandler) Unfavorite(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "recipe not found")
	}

	if err := services.RemoveFavorite(h.DB, viewerID(c), id); err != nil {
		return domainErrorResponse(c, err, "removeFavorite")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CartAdd handles POST /api/recipes/:id/shopping_cart
// @Summary Put a recipe into the shopping cart
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe id"
// @Success 201 {object} services.RecipeSummary
// @Failure 400 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /recipes/{id}/shopping_cart [post]
func (h *RecipeHandler) CartAdd(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "recipe not found")
	}

	summary, err := services.AddToCart(h.DB, viewerID(c), id)
	if err != nil {
		return domainErrorResponse(c, err, "addToCart")
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// CartRemove handles DELETE /api/recipes/:id/shopping_cart
// @Summary Take a recipe out of the shopping cart
// @Tags Recipes
// @Param id path int true "Recipe id"
// @Success 204
// @Failure 400 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /recipes/{id}/shopping_cart [delete]
func (h *RecipeHandler) CartRemove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, "recipe not found")
	}

	if err := services.RemoveFromCart(h.DB, viewerID(c), id); err != nil {
		return domainErrorResponse(c, err, "removeFromCart")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart
// @Summary Download the consolidated shopping list
// @Tags Recipes
// @Produce plain
// @Success 200 {string} string
// @Failure 400 {object} utils.RejectionResponseStruct
// @Security CookieAuth
// @Router /recipes/download_shopping_cart [get]
func (h *RecipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	user := currentUser(c)

	items, err := services.ShoppingListItems(h.DB, user.ID)
	if err != nil {
		return domainErrorResponse(c, err, "downloadShoppingCart")
	}

	document := services.RenderShoppingList(user, items, time.Now())
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", services.ShoppingListFilename(user)))
	return c.Status(fiber.StatusOK).SendString(document)
}
