package models

import "time"

// SettingBlindReview is the key of the global blind review toggle.
const SettingBlindReview = "blind_review_enabled"

// PortalSetting is a single global boolean setting row.
type PortalSetting struct {
	Key       string    `gorm:"primaryKey;column:setting_key;type:varchar(64)" json:"key"`
	BoolValue bool      `gorm:"column:bool_value;not null" json:"value"`
	UpdatedBy *uint     `gorm:"column:updated_by" json:"updated_by"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (PortalSetting) TableName() string { return "portal_settings" }
