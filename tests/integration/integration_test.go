package integration_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/platefeed/platefeed/internal/config"
	"github.com/platefeed/platefeed/internal/database"
	"github.com/platefeed/platefeed/internal/models"
	"github.com/platefeed/platefeed/internal/services"
	"github.com/platefeed/platefeed/tests/helpers"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestWithMariaDB tests the service against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	dbImage := os.Getenv("DB_IMAGE")
	if dbImage == "" {
		dbImage = "mariadb:11"
	}

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	// Get container host and port
	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Run tests
	t.Run("DuplicateKeyTranslation", func(t *testing.T) {
		testDuplicateKeyTranslation(t, db)
	})

	t.Run("ShoppingListAggregation", func(t *testing.T) {
		testShoppingListAggregation(t, db)
	})
}

// testDuplicateKeyTranslation verifies the unique pair index on favorites
// is the real authority: a duplicate row inserted under the pre-check
// comes back as the same conflict.
func testDuplicateKeyTranslation(t *testing.T, db *gorm.DB) {
	user := helpers.CreateTestUser(t, db, "dup")
	recipe := helpers.CreateTestRecipe(t, db, user, "Soup", nil)

	// Simulate the concurrent winner
	if err := db.Create(&models.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("Failed to create favorite: %v", err)
	}

	// Raw duplicate insert surfaces as ErrDuplicatedKey under TranslateError
	err := db.Create(&models.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Expected gorm.ErrDuplicatedKey, got %v", err)
	}

	// The service reports the same conflict shape
	_, err = services.AddFavorite(db, user.ID, recipe.ID)
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
}

// testShoppingListAggregation verifies the SUM/GROUP BY query on MySQL
func testShoppingListAggregation(t *testing.T, db *gorm.DB) {
	user := helpers.CreateTestUser(t, db, "agg")

	cake := helpers.CreateTestRecipe(t, db, user, "Cake", map[string]int{"Flour": 200})
	bread := helpers.CreateTestRecipe(t, db, user, "Bread", map[string]int{"Flour": 300})

	for _, recipe := range []*models.Recipe{cake, bread} {
		if _, err := services.AddToCart(db, user.ID, recipe.ID); err != nil {
			t.Fatalf("AddToCart failed: %v", err)
		}
	}

	items, err := services.ShoppingListItems(db, user.ID)
	if err != nil {
		t.Fatalf("ShoppingListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Amount != 500 {
		t.Errorf("Expected Flour summed to 500, got %+v", items)
	}
}
