package models

import "time"

// Linha do tempo da pendência: append-only por solicitação.
type PendenciaMessage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RequestID uint `gorm:"index;not null" json:"request_id"`

	// ubs | regulation
	Side string `gorm:"size:20;not null" json:"side"`

	// opening | message | reply
	Kind string `gorm:"size:20;not null" json:"kind"`

	AuthorID *uint  `json:"author_id"`
	Text     string `gorm:"type:text;not null" json:"text"`

	CreatedAt time.Time `json:"created_at"`
}
