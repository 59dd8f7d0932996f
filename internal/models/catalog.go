package models

import "time"

// Tabelas de referência: o núcleo de regulação consome tudo por id,
// guardando apenas o nome para exibição.

type UBS struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	District string `gorm:"size:100" json:"district"`
	Phone    string `gorm:"size:20" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Doctor struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null" json:"name"`
	CRM   string `gorm:"size:20" json:"crm"`
	Phone string `gorm:"size:20" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Specialty struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExamType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:100;not null" json:"name"`

	// valor de tabela (SIGTAP), informativo; o núcleo não calcula custo
	PriceCents int64 `json:"price_cents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Location struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Address string `gorm:"size:255" json:"address"`
	Phone   string `gorm:"size:20" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
