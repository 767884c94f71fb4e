// common.go
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
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/platefeed/platefeed/internal/models"
	"github.com/platefeed/platefeed/internal/services"
	"github.com/platefeed/platefeed/internal/utils"
)

// parseTagSlugs extracts tag slugs from query parameters, supporting both
// multiple 'tags' keys and comma-separated values.
func parseTagSlugs(c *fiber.Ctx) []string {
	slugMap := make(map[string]struct{})

	// Visit all query arguments to collect multiple 'tags' parameters
	args := c.Context().QueryArgs()
	for key, value := range args.All() {
		if string(key) == "tags" {
			// Split by comma in case the value itself is comma-separated
			vals := strings.Split(string(value), ",")
			for _, v := range vals {
				v = strings.TrimSpace(v)
				if v != "" {
					slugMap[v] = struct{}{}
				}
			}
		}
	}

	if len(slugMap) == 0 {
		return nil
	}

	slugs := make([]string, 0, len(slugMap))
	for k := range slugMap {
		slugs = append(slugs, k)
	}

	return slugs
}

// parsePagination reads the page number and page size ('limit' overrides
// the configured default).
func parsePagination(c *fiber.Ctx, defaultSize int) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = c.QueryInt("limit", defaultSize)
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}

// parseBoolParam treats "1" and "true" as true, everything else as false.
func parseBoolParam(c *fiber.Ctx, name string) bool {
	v := c.Query(name)
	return v == "1" || strings.EqualFold(v, "true")
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("id must be positive")
	}
	return id, nil
}

// currentUser returns the authenticated profile set by the auth
// middleware, or nil for anonymous requests.
func currentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals("user").(*models.User); ok {
		return user
	}
	return nil
}

// viewerID returns the authenticated user's id, 0 for anonymous.
func viewerID(c *fiber.Ctx) uint64 {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// domainErrorResponse maps service error kinds to the API error shape.
func domainErrorResponse(c *fiber.Ctx, err error, handler string) error {
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		return utils.ErrorsResponse(c, fiber.StatusNotFound, notFound.Error())
	}
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		return utils.ErrorsResponse(c, fiber.StatusBadRequest, conflict.Error())
	}
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		return utils.ErrorsResponse(c, fiber.StatusBadRequest, validation.Error())
	}
	var forbidden *services.ForbiddenError
	if errors.As(err, &forbidden) {
		return utils.ErrorsResponse(c, fiber.StatusForbidden, forbidden.Error())
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, handler)
}
