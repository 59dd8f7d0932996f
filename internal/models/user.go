package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	// regulator | ubs_user | admin
	Role string `gorm:"size:20;default:'ubs_user'" json:"role"`

	// vínculo com a UBS de origem (apenas ubs_user)
	UBSID *uint `json:"ubs_id"`
	UBS   *UBS  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"ubs,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
