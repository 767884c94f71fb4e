package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/platefeed/platefeed/internal/models"
	"github.com/platefeed/platefeed/internal/types"
	"gorm.io/gorm"
)

// Field bounds shared by cooking_time and ingredient amounts.
const (
	minFieldValue = 1
	maxFieldValue = 1440
)

// mediaURLPrefix is the public mount serving stored images; stored paths
// are relative to the media root.
const mediaURLPrefix = "/media/"

func imageURL(path string) string {
	if path == "" {
		return ""
	}
	return mediaURLPrefix + path
}

// RecipeFilter narrows a recipe listing. All fields are optional and
// combine as a conjunction; TagSlugs matches recipes carrying any of the
// listed slugs. Favorited/InCart only apply for an authenticated viewer.
type RecipeFilter struct {
	TagSlugs  []string
	AuthorID  uint64
	Favorited bool
	InCart    bool
	UserID    uint64
}

// RecipeSummary is the compact representation returned by favorite and
// cart mutations and used in author recipe previews.
type RecipeSummary struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// IngredientAmount is one ingredient line of a recipe.
type IngredientAmount struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeDetail is the full API representation of a recipe.
type RecipeDetail struct {
	ID               uint64             `json:"id"`
	Tags             []models.Tag       `json:"tags"`
	Author           UserProfile        `json:"author"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// IngredientAmountInput is one ingredient line of a recipe write payload.
type IngredientAmountInput struct {
	ID     types.FlexUint64 `json:"id"`
	Amount types.FlexUint64 `json:"amount"`
}

// RecipeInput is the create/update payload. Image is a base64 data URI;
// it may be empty on update to keep the stored image.
type RecipeInput struct {
	Name        string                                `json:"name"`
	Text        string                                `json:"text"`
	Image       string                                `json:"image"`
	CookingTime types.FlexUint64                      `json:"cooking_time"`
	Tags        types.FlexList[types.FlexUint64]      `json:"tags"`
	Ingredients types.FlexList[IngredientAmountInput] `json:"ingredients"`
}

// ListRecipes returns one page of recipes matching the filter, newest
// first, decorated from the viewer's perspective.
func ListRecipes(db *gorm.DB, filter RecipeFilter, page, pageSize int) ([]RecipeDetail, int64, error) {
	query := applyRecipeFilter(db, filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Distinct("recipes.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []uint64
	if err := query.Distinct().
		Order("recipes.id DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Pluck("recipes.id", &ids).Error; err != nil {
		return nil, 0, err
	}

	if len(ids) == 0 {
		return []RecipeDetail{}, total, nil
	}

	var recipes []models.Recipe
	if err := db.Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id IN ?", ids).
		Order("id DESC").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	details, err := decorateRecipes(db, recipes, filter.UserID)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// GetRecipe returns one recipe decorated from the viewer's perspective.
func GetRecipe(db *gorm.DB, id, viewerID uint64) (*RecipeDetail, error) {
	var recipe models.Recipe
	err := db.Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "recipe"}
		}
		return nil, err
	}

	details, err := decorateRecipes(db, []models.Recipe{recipe}, viewerID)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// CreateRecipe validates the payload, stores the image under mediaRoot and
// creates the recipe with its tag and ingredient links in one transaction.
func CreateRecipe(db *gorm.DB, mediaRoot string, authorID uint64, input RecipeInput) (*RecipeDetail, error) {
	if input.Image == "" {
		return nil, &ValidationError{Reason: "image is required"}
	}
	tags, lines, err := validateRecipeInput(db, input)
	if err != nil {
		return nil, err
	}

	imagePath, err := saveRecipeImage(mediaRoot, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        strings.TrimSpace(input.Name),
		AuthorID:    authorID,
		Image:       imagePath,
		Text:        input.Text,
		CookingTime: int(input.CookingTime.Uint64()),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}

	return GetRecipe(db, recipe.ID, authorID)
}

// UpdateRecipe replaces a recipe's fields, tags and ingredient lines.
// Only the author may update.
func UpdateRecipe(db *gorm.DB, mediaRoot string, userID, recipeID uint64, input RecipeInput) (*RecipeDetail, error) {
	var recipe models.Recipe
	if err := db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "recipe"}
		}
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, &ForbiddenError{Reason: "only the author may edit this recipe"}
	}

	tags, lines, err := validateRecipeInput(db, input)
	if err != nil {
		return nil, err
	}

	imagePath := recipe.Image
	if input.Image != "" {
		imagePath, err = saveRecipeImage(mediaRoot, input.Image)
		if err != nil {
			return nil, err
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         strings.TrimSpace(input.Name),
			"text":         input.Text,
			"image":        imagePath,
			"cooking_time": int(input.CookingTime.Uint64()),
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}

	return GetRecipe(db, recipe.ID, userID)
}

// DeleteRecipe removes the recipe and its owned rows. Only the author may
// delete.
func DeleteRecipe(db *gorm.DB, userID, recipeID uint64) error {
	var recipe models.Recipe
	if err := db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "recipe"}
		}
		return err
	}
	if recipe.AuthorID != userID {
		return &ForbiddenError{Reason: "only the author may delete this recipe"}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// applyRecipeFilter builds the listing query: the conjunction of whichever
// filters are present, with tag slugs contributing OR-of-values.
func applyRecipeFilter(db *gorm.DB, f RecipeFilter) *gorm.DB {
	query := db.Model(&models.Recipe{})

	if len(f.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags rt ON rt.recipe_id = recipes.id").
			Joins("JOIN tags t ON t.id = rt.tag_id").
			Where("t.slug IN ?", f.TagSlugs)
	}
	if f.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", f.AuthorID)
	}
	if f.UserID != 0 {
		if f.Favorited {
			query = query.Joins("JOIN favorites fav ON fav.recipe_id = recipes.id AND fav.user_id = ?", f.UserID)
		}
		if f.InCart {
			query = query.Joins("JOIN shopping_carts sc ON sc.recipe_id = recipes.id AND sc.user_id = ?", f.UserID)
		}
	}
	return query
}

// decorateRecipes builds the API representation, resolving the viewer's
// favorite, cart and subscription state in set queries.
func decorateRecipes(db *gorm.DB, recipes []models.Recipe, viewerID uint64) ([]RecipeDetail, error) {
	ids := make([]uint64, 0, len(recipes))
	for i := range recipes {
		ids = append(ids, recipes[i].ID)
	}

	favorited, err := relationSet(db, &models.Favorite{}, viewerID, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := relationSet(db, &models.ShoppingCart{}, viewerID, ids)
	if err != nil {
		return nil, err
	}
	followed, err := followedAuthorSet(db, viewerID)
	if err != nil {
		return nil, err
	}

	details := make([]RecipeDetail, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		lines := make([]IngredientAmount, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			lines = append(lines, IngredientAmount{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		details = append(details, RecipeDetail{
			ID:               r.ID,
			Tags:             tags,
			Author:           profileOf(&r.Author, followed[r.AuthorID]),
			Ingredients:      lines,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            imageURL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return details, nil
}

// relationSet returns which of the given recipe ids the viewer has in the
// relation table (favorites or shopping_carts).
func relationSet(db *gorm.DB, model interface{}, viewerID uint64, recipeIDs []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool)
	if viewerID == 0 || len(recipeIDs) == 0 {
		return set, nil
	}
	var ids []uint64
	if err := db.Model(model).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// validateRecipeInput checks field constraints and resolves tag and
// ingredient references. Returns the resolved tags and unlinked
// ingredient lines.
func validateRecipeInput(db *gorm.DB, input RecipeInput) ([]models.Tag, []models.RecipeIngredient, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, &ValidationError{Reason: "name is required"}
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, nil, &ValidationError{Reason: "text is required"}
	}
	cookingTime := int(input.CookingTime.Uint64())
	if cookingTime < minFieldValue || cookingTime > maxFieldValue {
		return nil, nil, &ValidationError{
			Reason: fmt.Sprintf("cooking_time must be between %d and %d", minFieldValue, maxFieldValue),
		}
	}
	if len(input.Tags) == 0 {
		return nil, nil, &ValidationError{Reason: "at least one tag is required"}
	}
	if len(input.Ingredients) == 0 {
		return nil, nil, &ValidationError{Reason: "at least one ingredient is required"}
	}

	tagIDs := make([]uint64, 0, len(input.Tags))
	seenTags := make(map[uint64]bool)
	for _, id := range input.Tags {
		if seenTags[id.Uint64()] {
			return nil, nil, &ValidationError{Reason: "tags must not repeat"}
		}
		seenTags[id.Uint64()] = true
		tagIDs = append(tagIDs, id.Uint64())
	}
	var tags []models.Tag
	if err := db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, nil, &ValidationError{Reason: "one or more tags do not exist"}
	}

	seen := make(map[uint64]bool)
	ingredientIDs := make([]uint64, 0, len(input.Ingredients))
	lines := make([]models.RecipeIngredient, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		id := line.ID.Uint64()
		amount := int(line.Amount.Uint64())
		if seen[id] {
			return nil, nil, &ValidationError{Reason: "a recipe cannot list the same ingredient twice"}
		}
		seen[id] = true
		if amount < minFieldValue || amount > maxFieldValue {
			return nil, nil, &ValidationError{
				Reason: fmt.Sprintf("ingredient amount must be between %d and %d", minFieldValue, maxFieldValue),
			}
		}
		ingredientIDs = append(ingredientIDs, id)
		lines = append(lines, models.RecipeIngredient{IngredientID: id, Amount: amount})
	}
	var existing int64
	if err := db.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&existing).Error; err != nil {
		return nil, nil, err
	}
	if existing != int64(len(ingredientIDs)) {
		return nil, nil, &ValidationError{Reason: "one or more ingredients do not exist"}
	}

	return tags, lines, nil
}

// saveRecipeImage decodes a base64 data URI and writes it below
// mediaRoot/recipes/images, returning the stored relative path.
func saveRecipeImage(mediaRoot, dataURI string) (string, error) {
	payload := dataURI
	ext := "png"
	if strings.HasPrefix(dataURI, "data:") {
		semi := strings.Index(dataURI, ";base64,")
		if semi < 0 {
			return "", &ValidationError{Reason: "image must be a base64 data URI"}
		}
		mediaType := dataURI[len("data:"):semi]
		if slash := strings.Index(mediaType, "/"); slash >= 0 {
			ext = mediaType[slash+1:]
		}
		payload = dataURI[semi+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", &ValidationError{Reason: "image is not valid base64 data"}
	}

	dir := filepath.Join(mediaRoot, "recipes", "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + "." + ext
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join("recipes", "images", name)), nil
}

func summaryOf(recipe *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       imageURL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}
