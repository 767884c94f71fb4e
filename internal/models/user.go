package models

import (
	"time"
)

// User is the local profile for an account. Credentials and sessions live
// in the external Authorizer service; the profile is joined by email.
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"size:150;not null" json:"first_name"`
	LastName  string    `gorm:"size:150;not null" json:"last_name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Subscription is a user-follows-author relation. The (user, author) pair
// is unique; the self-follow check lives in the relation service.
type Subscription struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index:idx_subscription_pair,unique"`
	AuthorID  uint64 `gorm:"not null;index:idx_subscription_pair,unique"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author    User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}
