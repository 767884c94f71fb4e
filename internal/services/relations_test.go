package services_test

import (
	"errors"
	"testing"

	"github.com/platefeed/platefeed/internal/models"
	"github.com/platefeed/platefeed/internal/services"
)

// TestAddFavorite tests the favorite add path and its duplicate guard
func TestAddFavorite(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")
	recipe := seedRecipe(t, db, author, "Borscht", nil, nil)

	summary, err := services.AddFavorite(db, user.ID, recipe.ID)
	if err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if summary.ID != recipe.ID || summary.Name != "Borscht" {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	// Second add is a conflict
	_, err = services.AddFavorite(db, user.ID, recipe.ID)
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
	if conflict.Error() != "recipe is already in favorites" {
		t.Errorf("Unexpected conflict message: %s", conflict.Error())
	}
}

// TestAddFavoriteMissingRecipe tests the not-found path
func TestAddFavoriteMissingRecipe(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "reader")

	_, err := services.AddFavorite(db, user.ID, 9999)
	var notFound *services.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

// TestRemoveFavoriteAbsent verifies removing a non-existent bookmark is
// reported as a conflict, not a silent success
func TestRemoveFavoriteAbsent(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")
	recipe := seedRecipe(t, db, author, "Borscht", nil, nil)

	err := services.RemoveFavorite(db, user.ID, recipe.ID)
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
}

// TestFavoriteRoundTrip adds then removes a favorite
func TestFavoriteRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")
	recipe := seedRecipe(t, db, author, "Borscht", nil, nil)

	if _, err := services.AddFavorite(db, user.ID, recipe.ID); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if err := services.RemoveFavorite(db, user.ID, recipe.ID); err != nil {
		t.Fatalf("RemoveFavorite failed: %v", err)
	}

	var count int64
	db.Model(&models.Favorite{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected 0 favorites after removal, got %d", count)
	}
}

// TestCartAddRemove exercises the shopping cart relation
func TestCartAddRemove(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")
	recipe := seedRecipe(t, db, author, "Pancakes", nil, nil)

	if _, err := services.AddToCart(db, user.ID, recipe.ID); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}

	_, err := services.AddToCart(db, user.ID, recipe.ID)
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError on duplicate cart add, got %v", err)
	}
	if conflict.Error() != "recipe is already in the shopping cart" {
		t.Errorf("Unexpected conflict message: %s", conflict.Error())
	}

	if err := services.RemoveFromCart(db, user.ID, recipe.ID); err != nil {
		t.Fatalf("RemoveFromCart failed: %v", err)
	}
	err = services.RemoveFromCart(db, user.ID, recipe.ID)
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError on second removal, got %v", err)
	}
}

// TestSubscribe verifies the subscribe response carries the author's
// recipe preview and count
func TestSubscribe(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")
	for _, name := range []string{"First", "Second", "Third", "Fourth"} {
		seedRecipe(t, db, author, name, nil, nil)
	}

	result, err := services.Subscribe(db, user.ID, author.ID, 3)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if !result.IsSubscribed {
		t.Error("Expected is_subscribed=true in subscribe response")
	}
	if result.RecipesCount != 4 {
		t.Errorf("Expected recipes_count 4, got %d", result.RecipesCount)
	}
	if len(result.Recipes) != 3 {
		t.Fatalf("Expected 3 preview recipes, got %d", len(result.Recipes))
	}
	// Newest first
	if result.Recipes[0].Name != "Fourth" {
		t.Errorf("Expected newest recipe first, got %s", result.Recipes[0].Name)
	}
}

// TestSubscribeSelf verifies self-subscription is rejected
func TestSubscribeSelf(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "loner")

	_, err := services.Subscribe(db, user.ID, user.ID, 3)
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
	if conflict.Error() != "cannot subscribe to yourself" {
		t.Errorf("Unexpected conflict message: %s", conflict.Error())
	}
}

// TestSubscribeDuplicate verifies double subscription is rejected
func TestSubscribeDuplicate(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")

	if _, err := services.Subscribe(db, user.ID, author.ID, 3); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	_, err := services.Subscribe(db, user.ID, author.ID, 3)
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
}

// TestUnsubscribe covers the remove path and its conflicts
func TestUnsubscribe(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")

	// Not subscribed yet
	err := services.Unsubscribe(db, user.ID, author.ID)
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}

	if _, err := services.Subscribe(db, user.ID, author.ID, 3); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := services.Unsubscribe(db, user.ID, author.ID); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	// Missing target user
	err = services.Unsubscribe(db, user.ID, 9999)
	var notFound *services.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}
