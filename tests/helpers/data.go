// data.go
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

package helpers

import (
	"testing"

	"github.com/platefeed/platefeed/internal/models"
	"gorm.io/gorm"
)

// CreateTestUser creates a profile with deterministic fields
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

// CreateTestRecipe creates a recipe with (ingredient name, unit, amount)
// lines, creating the ingredients on the fly.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, lines map[string]int) *models.Recipe {
	recipe := models.Recipe{
		Name:        name,
		AuthorID:    author.ID,
		Image:       "recipes/images/" + name + ".png",
		Text:        "How to cook " + name,
		CookingTime: 25,
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("Failed to create recipe %s: %v", name, err)
	}

	for ingredientName, amount := range lines {
		var ingredient models.Ingredient
		err := db.Where("name = ?", ingredientName).
			Attrs(models.Ingredient{MeasurementUnit: "g"}).
			FirstOrCreate(&ingredient, models.Ingredient{Name: ingredientName}).Error
		if err != nil {
			t.Fatalf("Failed to resolve ingredient %s: %v", ingredientName, err)
		}
		line := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Amount:       amount,
		}
		if err := db.Create(&line).Error; err != nil {
			t.Fatalf("Failed to create ingredient line for %s: %v", name, err)
		}
	}
	return &recipe
}
