package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/platefeed/platefeed/internal/models"
	"gorm.io/gorm"
)

// ListIngredients returns all ingredients ordered by name, optionally
// narrowed to names starting with namePrefix. Case sensitivity of the
// match follows the database collation.
func ListIngredients(db *gorm.DB, namePrefix string) ([]models.Ingredient, error) {
	query := db.Model(&models.Ingredient{}).Order("name")
	if namePrefix != "" {
		query = query.Where("name LIKE ?", escapeLike(namePrefix)+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetIngredient returns one ingredient by id.
func GetIngredient(db *gorm.DB, id uint64) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := db.First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "ingredient"}
		}
		return nil, err
	}
	return &ingredient, nil
}

// LoadIngredientsCSV bulk-loads the ingredient table from a two-column
// (name, measurement unit) CSV. Returns the number of rows created.
func LoadIngredientsCSV(db *gorm.DB, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var ingredients []models.Ingredient
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read ingredients csv: %w", err)
		}
		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			return 0, fmt.Errorf("ingredients csv row %v has an empty field", record)
		}
		ingredients = append(ingredients, models.Ingredient{Name: name, MeasurementUnit: unit})
	}

	if len(ingredients) == 0 {
		return 0, nil
	}
	if err := db.CreateInBatches(&ingredients, 500).Error; err != nil {
		return 0, err
	}
	return len(ingredients), nil
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
