package services

import (
	"errors"

	"github.com/platefeed/platefeed/internal/models"
	"gorm.io/gorm"
)

// ListTags returns all tags ordered by name.
func ListTags(db *gorm.DB) ([]models.Tag, error) {
	var tags []models.Tag
	if err := db.Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTag returns one tag by id.
func GetTag(db *gorm.DB, id uint64) (*models.Tag, error) {
	var tag models.Tag
	if err := db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "tag"}
		}
		return nil, err
	}
	return &tag, nil
}
