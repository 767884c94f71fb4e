package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/platefeed/platefeed/internal/models"
	"gorm.io/gorm"
)

// ShoppingItem is one aggregated line of the purchase list.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListItems collects every ingredient of every recipe in the
// user's cart, summed by (name, unit) and ordered by name so the output
// is deterministic. An empty cart is a conflict, not an empty document.
func ShoppingListItems(db *gorm.DB, userID uint64) ([]ShoppingItem, error) {
	var count int64
	if err := db.Model(&models.ShoppingCart{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &ConflictError{Reason: "shopping cart is empty"}
	}

	var items []ShoppingItem
	err := db.Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderShoppingList formats the purchase list as a plain text document.
func RenderShoppingList(user *models.User, items []ShoppingItem, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list (%s)\n", user.FirstName)
	fmt.Fprintf(&b, "%s\n\n", now.Format("02/01/2006 15:04"))
	for _, item := range items {
		fmt.Fprintf(&b, "%s: %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	b.WriteString("\nPlatefeed")
	return b.String()
}

// ShoppingListFilename names the downloaded attachment for a user.
func ShoppingListFilename(user *models.User) string {
	return fmt.Sprintf("%s_shopping_list.txt", user.Username)
}
