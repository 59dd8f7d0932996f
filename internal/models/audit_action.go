package models

import "time"

type AuditAction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint `gorm:"index" json:"user_id"`
	UBSID  *uint `json:"ubs_id"`

	Action string `gorm:"size:50;not null" json:"action"`

	Entity   string `gorm:"size:50" json:"entity"`
	EntityID *uint  `json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
