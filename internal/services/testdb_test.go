package services_test

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/platefeed/platefeed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", username, err)
	}
	return &user
}

func seedTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("Failed to seed tag %s: %v", name, err)
	}
	return &tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("Failed to seed ingredient %s: %v", name, err)
	}
	return &ingredient
}

// seedRecipe creates a recipe with the given tags and (ingredient, amount)
// lines directly through the models.
func seedRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, lines map[*models.Ingredient]int) *models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		Name:        name,
		AuthorID:    author.ID,
		Image:       fmt.Sprintf("recipes/images/%s.png", name),
		Text:        "How to cook " + name,
		CookingTime: 30,
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("Failed to seed recipe %s: %v", name, err)
	}
	for _, tag := range tags {
		if err := db.Model(&recipe).Association("Tags").Append(tag); err != nil {
			t.Fatalf("Failed to tag recipe %s: %v", name, err)
		}
	}
	for ingredient, amount := range lines {
		line := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Amount:       amount,
		}
		if err := db.Create(&line).Error; err != nil {
			t.Fatalf("Failed to add ingredient line to %s: %v", name, err)
		}
	}
	return &recipe
}
