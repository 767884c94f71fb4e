// relations.go
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

package services

import (
	"errors"

	"github.com/platefeed/platefeed/internal/models"
	"gorm.io/gorm"
)

// Relation guard: every add pre-checks for a duplicate, but the authority
// is the unique index on the pair. A concurrent add that slips past the
// pre-check comes back as gorm.ErrDuplicatedKey and is reported as the
// same conflict. Removes never silently succeed on absent rows.

// AddFavorite bookmarks a recipe for the user.
func AddFavorite(db *gorm.DB, userID, recipeID uint64) (*RecipeSummary, error) {
	row := &models.Favorite{UserID: userID, RecipeID: recipeID}
	return addRecipeRelation(db, userID, recipeID, row, "recipe is already in favorites")
}

// RemoveFavorite deletes the bookmark; absent rows are a conflict.
func RemoveFavorite(db *gorm.DB, userID, recipeID uint64) error {
	return removeRecipeRelation(db, &models.Favorite{}, userID, recipeID,
		"recipe is already removed from favorites")
}

// AddToCart puts a recipe into the user's shopping cart.
func AddToCart(db *gorm.DB, userID, recipeID uint64) (*RecipeSummary, error) {
	row := &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	return addRecipeRelation(db, userID, recipeID, row, "recipe is already in the shopping cart")
}

// RemoveFromCart takes a recipe out of the cart; absent rows are a conflict.
func RemoveFromCart(db *gorm.DB, userID, recipeID uint64) error {
	return removeRecipeRelation(db, &models.ShoppingCart{}, userID, recipeID,
		"recipe is already removed from the shopping cart")
}

// Subscribe makes the user follow the author and returns the author's
// profile enriched with a recipe preview.
func Subscribe(db *gorm.DB, userID, authorID uint64, recipesLimit int) (*AuthorWithRecipes, error) {
	var author models.User
	if err := db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}

	if userID == authorID {
		return nil, &ConflictError{Reason: "cannot subscribe to yourself"}
	}

	var count int64
	if err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Reason: "already subscribed to this user"}
	}

	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Reason: "already subscribed to this user"}
		}
		return nil, err
	}

	return authorWithRecipes(db, &author, true, recipesLimit)
}

// Unsubscribe removes the follow relation; absent rows and self targets
// are conflicts.
func Unsubscribe(db *gorm.DB, userID, authorID uint64) error {
	var author models.User
	if err := db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "user"}
		}
		return err
	}

	if userID == authorID {
		return &ConflictError{Reason: "cannot unsubscribe from yourself"}
	}

	result := db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &ConflictError{Reason: "not subscribed to this user"}
	}
	return nil
}

// addRecipeRelation is the shared add path for favorites and the cart:
// the recipe must exist, the pair must be new.
func addRecipeRelation(db *gorm.DB, userID, recipeID uint64, row interface{}, dupReason string) (*RecipeSummary, error) {
	var recipe models.Recipe
	if err := db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "recipe"}
		}
		return nil, err
	}

	var count int64
	if err := db.Model(row).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Reason: dupReason}
	}

	if err := db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Reason: dupReason}
		}
		return nil, err
	}

	summary := summaryOf(&recipe)
	return &summary, nil
}

// removeRecipeRelation is the shared remove path for favorites and the cart.
func removeRecipeRelation(db *gorm.DB, model interface{}, userID, recipeID uint64, absentReason string) error {
	result := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &ConflictError{Reason: absentReason}
	}
	return nil
}
