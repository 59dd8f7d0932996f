package models

import "time"

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	Text     string `gorm:"size:255;not null" json:"text"`
	DeepLink string `gorm:"size:255" json:"deep_link"`

	Read bool `gorm:"default:false;index" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
