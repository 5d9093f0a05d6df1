package models

import (
	"time"
)

// User is the read-only directory entry maintained by the auth provider.
type User struct {
	UserID      uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	DisplayName string     `gorm:"column:display_name" json:"display_name"`
	RoleName    string     `gorm:"column:role" json:"role"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

// Role resolves the stored role string; ok is false for unknown roles.
func (u User) Role() (Role, bool) {
	return ParseRole(u.RoleName)
}
