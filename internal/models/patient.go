package models

import "time"

type Patient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name      string     `gorm:"size:100;not null" json:"name"`
	CPF       string     `gorm:"size:14;uniqueIndex" json:"cpf"`
	CNS       string     `gorm:"size:20" json:"cns"`
	BirthDate *time.Time `gorm:"type:date" json:"birth_date"`
	Phone     string     `gorm:"size:20" json:"phone"`
	Address   string     `gorm:"size:255" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
