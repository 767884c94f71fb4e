package services_test

import (
	"errors"
	"testing"

	"github.com/platefeed/platefeed/internal/services"
)

// TestCreateUser covers registration and its uniqueness guards
func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)

	input := services.UserInput{
		Username:  "anna",
		Email:     "anna@example.com",
		FirstName: "Anna",
		LastName:  "Smith",
	}
	profile, err := services.CreateUser(db, input)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if profile.Username != "anna" || profile.IsSubscribed {
		t.Errorf("Unexpected profile: %+v", profile)
	}

	var validation *services.ValidationError

	// Duplicate username
	dup := input
	dup.Email = "other@example.com"
	if _, err := services.CreateUser(db, dup); !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for duplicate username, got %v", err)
	}

	// Duplicate email
	dup = input
	dup.Username = "other"
	if _, err := services.CreateUser(db, dup); !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for duplicate email, got %v", err)
	}

	// Missing fields
	if _, err := services.CreateUser(db, services.UserInput{Username: "x"}); !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for missing fields, got %v", err)
	}
}

// TestGetUserSubscribedFlag verifies is_subscribed depends on the viewer
func TestGetUserSubscribedFlag(t *testing.T) {
	db := setupTestDB(t)
	viewer := seedUser(t, db, "viewer")
	author := seedUser(t, db, "author")

	if _, err := services.Subscribe(db, viewer.ID, author.ID, 3); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	profile, err := services.GetUser(db, author.ID, viewer.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if !profile.IsSubscribed {
		t.Error("Expected is_subscribed=true for the follower")
	}

	// Anonymous viewer
	profile, err = services.GetUser(db, author.ID, 0)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if profile.IsSubscribed {
		t.Error("Expected is_subscribed=false for anonymous")
	}
}

// TestListUsers verifies ordering and pagination
func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	for _, name := range []string{"alpha", "beta", "gamma"} {
		seedUser(t, db, name)
	}

	profiles, total, err := services.ListUsers(db, 0, 1, 2)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
	if len(profiles) != 2 || profiles[0].Username != "alpha" {
		t.Errorf("Unexpected page: %+v", profiles)
	}

	profiles, _, err = services.ListUsers(db, 0, 2, 2)
	if err != nil {
		t.Fatalf("ListUsers page 2 failed: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Username != "gamma" {
		t.Errorf("Unexpected page 2: %+v", profiles)
	}
}

// TestListSubscriptions verifies the followed-author listing with previews
func TestListSubscriptions(t *testing.T) {
	db := setupTestDB(t)
	follower := seedUser(t, db, "follower")
	chef := seedUser(t, db, "chef")
	baker := seedUser(t, db, "baker")
	stranger := seedUser(t, db, "stranger")

	for _, name := range []string{"R1", "R2", "R3", "R4"} {
		seedRecipe(t, db, chef, name, nil, nil)
	}
	seedRecipe(t, db, stranger, "Unrelated", nil, nil)

	for _, author := range []uint64{chef.ID, baker.ID} {
		if _, err := services.Subscribe(db, follower.ID, author, 3); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}

	authors, total, err := services.ListSubscriptions(db, follower.ID, 1, 10, 2)
	if err != nil {
		t.Fatalf("ListSubscriptions failed: %v", err)
	}
	if total != 2 || len(authors) != 2 {
		t.Fatalf("Expected 2 followed authors, got total=%d len=%d", total, len(authors))
	}

	// Follow order is preserved
	if authors[0].Username != "chef" || authors[1].Username != "baker" {
		t.Errorf("Unexpected author order: %s, %s", authors[0].Username, authors[1].Username)
	}
	if authors[0].RecipesCount != 4 {
		t.Errorf("Expected recipes_count 4 for chef, got %d", authors[0].RecipesCount)
	}
	if len(authors[0].Recipes) != 2 {
		t.Errorf("Expected recipes_limit=2 preview, got %d", len(authors[0].Recipes))
	}
	if !authors[0].IsSubscribed {
		t.Error("Expected is_subscribed=true in subscriptions listing")
	}
}

// TestUserByEmail resolves the auth middleware join
func TestUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "anna")

	user, err := services.UserByEmail(db, "anna@example.com")
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	if user.Username != "anna" {
		t.Errorf("Unexpected user: %+v", user)
	}

	_, err = services.UserByEmail(db, "ghost@example.com")
	var notFound *services.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}
