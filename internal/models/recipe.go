package models

import (
	"time"
)

// Tag is immutable reference data attached to recipes.
type Tag struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"size:200;not null" json:"name"`
	Color string `gorm:"size:7;uniqueIndex;not null;default:#00FF00" json:"color"`
	Slug  string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

// Ingredient is immutable reference data, bulk-loaded from a CSV fixture.
type Ingredient struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string `gorm:"size:256;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:24;not null" json:"measurement_unit"`
}

// Recipe is owned by its author for write purposes, readable by all.
type Recipe struct {
	ID          uint64             `gorm:"primaryKey;autoIncrement"`
	Name        string             `gorm:"size:256;not null"`
	AuthorID    uint64             `gorm:"not null;index"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Image       string             `gorm:"size:512;not null"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient links one Recipe to one Ingredient with a quantity.
// A recipe cannot list the same ingredient twice.
type RecipeIngredient struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement"`
	RecipeID     uint64     `gorm:"not null;index:idx_recipe_ingredient,unique"`
	IngredientID uint64     `gorm:"not null;index:idx_recipe_ingredient,unique"`
	Amount       int        `gorm:"not null"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// Favorite is a user-recipe bookmark, unique per pair.
type Favorite struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index:idx_favorite_pair,unique"`
	RecipeID  uint64 `gorm:"not null;index:idx_favorite_pair,unique"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// ShoppingCart marks a recipe whose ingredients the user intends to buy,
// unique per (user, recipe) pair.
type ShoppingCart struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index:idx_cart_pair,unique"`
	RecipeID  uint64 `gorm:"not null;index:idx_cart_pair,unique"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName overrides the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// TableName overrides the table name for Ingredient
func (Ingredient) TableName() string {
	return "ingredients"
}

// TableName overrides the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// TableName overrides the table name for RecipeIngredient
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// TableName overrides the table name for Favorite
func (Favorite) TableName() string {
	return "favorites"
}

// TableName overrides the table name for ShoppingCart
func (ShoppingCart) TableName() string {
	return "shopping_carts"
}
