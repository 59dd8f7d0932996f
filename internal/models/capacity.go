package models

import "time"

// DailyCapacityBucket limita autorizações por (médico, especialidade|exame, dia).
// O contador de reservas é derivado das solicitações autorizadas que
// compartilham a tripla; o bucket guarda apenas o teto.
type DailyCapacityBucket struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint   `gorm:"uniqueIndex:ux_bucket_triple;not null" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor"`

	// exatamente um dos dois preenchido
	SpecialtyID *uint `gorm:"uniqueIndex:ux_bucket_triple" json:"specialty_id"`
	ExamTypeID  *uint `gorm:"uniqueIndex:ux_bucket_triple" json:"exam_type_id"`

	Date time.Time `gorm:"type:date;uniqueIndex:ux_bucket_triple;not null" json:"date"`

	Capacity int  `gorm:"not null" json:"capacity"`
	Active   bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeeklyCapacityTemplate é só molde: materializa buckets diários para um
// horizonte, nunca carrega reservas.
type WeeklyCapacityTemplate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID    uint `gorm:"uniqueIndex:ux_template;not null" json:"doctor_id"`
	SpecialtyID uint `gorm:"uniqueIndex:ux_template;not null" json:"specialty_id"`

	// 0 = domingo ... 6 = sábado
	Weekday int `gorm:"uniqueIndex:ux_template;not null" json:"weekday"`

	Capacity int  `gorm:"not null" json:"capacity"`
	Active   bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
