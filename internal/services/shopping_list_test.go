package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/platefeed/platefeed/internal/models"
	"github.com/platefeed/platefeed/internal/services"
)

// TestShoppingListItems verifies the per-(name, unit) aggregation across
// all recipes in the cart
func TestShoppingListItems(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "shopper")
	author := seedUser(t, db, "author")

	flour := seedIngredient(t, db, "Flour", "g")
	sugar := seedIngredient(t, db, "Sugar", "g")
	egg := seedIngredient(t, db, "Egg", "pcs")

	cake := seedRecipe(t, db, author, "Cake", nil, map[*models.Ingredient]int{
		flour: 200,
		sugar: 50,
	})
	pancakes := seedRecipe(t, db, author, "Pancakes", nil, map[*models.Ingredient]int{
		flour: 300,
		egg:   2,
	})

	for _, recipe := range []*models.Recipe{cake, pancakes} {
		if _, err := services.AddToCart(db, user.ID, recipe.ID); err != nil {
			t.Fatalf("AddToCart failed: %v", err)
		}
	}

	items, err := services.ShoppingListItems(db, user.ID)
	if err != nil {
		t.Fatalf("ShoppingListItems failed: %v", err)
	}

	expected := []services.ShoppingItem{
		{Name: "Egg", MeasurementUnit: "pcs", Amount: 2},
		{Name: "Flour", MeasurementUnit: "g", Amount: 500},
		{Name: "Sugar", MeasurementUnit: "g", Amount: 50},
	}
	if len(items) != len(expected) {
		t.Fatalf("Expected %d items, got %d: %+v", len(expected), len(items), items)
	}
	for i, want := range expected {
		if items[i] != want {
			t.Errorf("Item %d: expected %+v, got %+v", i, want, items[i])
		}
	}
}

// TestShoppingListEmptyCart verifies an empty cart is a conflict
func TestShoppingListEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "shopper")

	_, err := services.ShoppingListItems(db, user.ID)
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
	if conflict.Error() != "shopping cart is empty" {
		t.Errorf("Unexpected conflict message: %s", conflict.Error())
	}
}

// TestShoppingListOtherUsersCartsIgnored verifies isolation between carts
func TestShoppingListOtherUsersCartsIgnored(t *testing.T) {
	db := setupTestDB(t)
	shopper := seedUser(t, db, "shopper")
	other := seedUser(t, db, "other")
	author := seedUser(t, db, "author")

	flour := seedIngredient(t, db, "Flour", "g")
	cake := seedRecipe(t, db, author, "Cake", nil, map[*models.Ingredient]int{flour: 200})
	bread := seedRecipe(t, db, author, "Bread", nil, map[*models.Ingredient]int{flour: 500})

	if _, err := services.AddToCart(db, shopper.ID, cake.ID); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	if _, err := services.AddToCart(db, other.ID, bread.ID); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}

	items, err := services.ShoppingListItems(db, shopper.ID)
	if err != nil {
		t.Fatalf("ShoppingListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Amount != 200 {
		t.Errorf("Expected only the shopper's 200 g of flour, got %+v", items)
	}
}

// TestRenderShoppingList verifies the document layout
func TestRenderShoppingList(t *testing.T) {
	user := &models.User{Username: "shopper", FirstName: "Anna"}
	items := []services.ShoppingItem{
		{Name: "Egg", MeasurementUnit: "pcs", Amount: 2},
		{Name: "Flour", MeasurementUnit: "g", Amount: 500},
	}
	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)

	document := services.RenderShoppingList(user, items, now)

	expected := "Shopping list (Anna)\n" +
		"28/08/2026 09:30\n\n" +
		"Egg: 2 pcs\n" +
		"Flour: 500 g\n" +
		"\nPlatefeed"
	if document != expected {
		t.Errorf("Unexpected document:\n%q\nwant:\n%q", document, expected)
	}

	if !strings.HasSuffix(services.ShoppingListFilename(user), "_shopping_list.txt") {
		t.Errorf("Unexpected filename: %s", services.ShoppingListFilename(user))
	}
	if services.ShoppingListFilename(user) != "shopper_shopping_list.txt" {
		t.Errorf("Unexpected filename: %s", services.ShoppingListFilename(user))
	}
}
