package services

import (
	"errors"
	"strings"

	"github.com/platefeed/platefeed/internal/models"
	"gorm.io/gorm"
)

// UserProfile is the API representation of a user, enriched with the
// caller's subscription state.
type UserProfile struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// AuthorWithRecipes is a followed author's profile with a recipe preview,
// used by the subscribe response and the subscriptions listing.
type AuthorWithRecipes struct {
	UserProfile
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// UserInput is the registration payload.
type UserInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DefaultSubscriptionRecipes caps the recipe preview per followed author
// when the client does not pass recipes_limit.
const DefaultSubscriptionRecipes = 3

// CreateUser registers a local profile. Username and email must be unique
// and all profile fields are required.
func CreateUser(db *gorm.DB, input UserInput) (*UserProfile, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if input.Username == "" || input.Email == "" || input.FirstName == "" || input.LastName == "" {
		return nil, &ValidationError{Reason: "username, email, first_name and last_name are required"}
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ValidationError{Reason: "a user with that username already exists"}
	}
	if err := db.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ValidationError{Reason: "a user with that email already exists"}
	}

	user := models.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Reason: "a user with that username or email already exists"}
		}
		return nil, err
	}

	profile := profileOf(&user, false)
	return &profile, nil
}

// GetUser returns one profile with is_subscribed from the viewer's
// perspective. viewerID 0 means anonymous.
func GetUser(db *gorm.DB, id, viewerID uint64) (*UserProfile, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}

	subscribed, err := isSubscribed(db, viewerID, user.ID)
	if err != nil {
		return nil, err
	}

	profile := profileOf(&user, subscribed)
	return &profile, nil
}

// UserByEmail resolves the local profile for an authenticated account.
func UserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns one page of profiles ordered by id.
func ListUsers(db *gorm.DB, viewerID uint64, page, pageSize int) ([]UserProfile, int64, error) {
	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := db.Order("id").Limit(pageSize).Offset((page - 1) * pageSize).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	followed, err := followedAuthorSet(db, viewerID)
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, profileOf(&users[i], followed[users[i].ID]))
	}
	return profiles, total, nil
}

// ListSubscriptions returns one page of the user's followed authors, each
// with a recipe preview of up to recipesLimit most recent recipes.
func ListSubscriptions(db *gorm.DB, userID uint64, page, pageSize, recipesLimit int) ([]AuthorWithRecipes, int64, error) {
	var total int64
	if err := db.Model(&models.Subscription{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []models.Subscription
	if err := db.Preload("Author").
		Where("user_id = ?", userID).
		Order("id").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	authors := make([]AuthorWithRecipes, 0, len(subs))
	for i := range subs {
		author, err := authorWithRecipes(db, &subs[i].Author, true, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		authors = append(authors, *author)
	}
	return authors, total, nil
}

// authorWithRecipes builds the enriched author payload shared by the
// subscribe response and the subscriptions listing.
func authorWithRecipes(db *gorm.DB, author *models.User, subscribed bool, recipesLimit int) (*AuthorWithRecipes, error) {
	if recipesLimit <= 0 {
		recipesLimit = DefaultSubscriptionRecipes
	}

	var count int64
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	if err := db.Where("author_id = ?", author.ID).
		Order("id DESC").
		Limit(recipesLimit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, summaryOf(&recipes[i]))
	}

	return &AuthorWithRecipes{
		UserProfile:  profileOf(author, subscribed),
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}

// isSubscribed reports whether viewer follows author. Anonymous viewers
// (id 0) are never subscribed.
func isSubscribed(db *gorm.DB, viewerID, authorID uint64) (bool, error) {
	if viewerID == 0 {
		return false, nil
	}
	var count int64
	err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", viewerID, authorID).
		Count(&count).Error
	return count > 0, err
}

// followedAuthorSet returns the ids of all authors the viewer follows.
func followedAuthorSet(db *gorm.DB, viewerID uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool)
	if viewerID == 0 {
		return set, nil
	}
	var ids []uint64
	if err := db.Model(&models.Subscription{}).
		Where("user_id = ?", viewerID).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func profileOf(user *models.User, subscribed bool) UserProfile {
	return UserProfile{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}
