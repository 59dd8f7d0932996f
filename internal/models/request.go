package models

import "time"

type Request struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// exam | consultation
	Kind string `gorm:"size:20;not null;index" json:"kind"`

	// protocolo único por item; order number compartilhado pelo lote
	Protocol    string `gorm:"size:20;uniqueIndex;not null" json:"protocol"`
	OrderNumber string `gorm:"size:20;index" json:"order_number"`

	UBSID uint `gorm:"index" json:"ubs_id"`
	UBS   UBS  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"ubs"`

	RequestingDoctorID uint   `json:"requesting_doctor_id"`
	RequestingDoctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"requesting_doctor"`

	// snapshot demográfico capturado na submissão;
	// edições posteriores do cadastro não alteram o histórico
	PatientID        uint       `gorm:"index" json:"patient_id"`
	PatientName      string     `gorm:"size:100;not null" json:"patient_name"`
	PatientCPF       string     `gorm:"size:14" json:"patient_cpf"`
	PatientCNS       string     `gorm:"size:20" json:"patient_cns"`
	PatientBirthDate *time.Time `gorm:"type:date" json:"patient_birth_date"`
	PatientPhone     string     `gorm:"size:20" json:"patient_phone"`
	PatientAddress   string     `gorm:"size:255" json:"patient_address"`

	// payload clínico: exatamente um dos dois conforme o kind
	ExamTypeID  *uint      `json:"exam_type_id"`
	ExamType    *ExamType  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"exam_type,omitempty"`
	SpecialtyID *uint      `json:"specialty_id"`
	Specialty   *Specialty `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"specialty,omitempty"`

	Justification   string `gorm:"type:text;not null" json:"justification"`
	Priority        string `gorm:"size:10;default:'normal';index" json:"priority"`
	SubmissionNotes string `gorm:"type:text" json:"submission_notes"`

	// queued | pending | authorized | denied | cancelled
	Status         string     `gorm:"size:20;default:'queued';index" json:"status"`
	RegulatorID    *uint      `json:"regulator_id"`
	DecisionReason string     `gorm:"type:text" json:"decision_reason"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	RegulatedAt    *time.Time `json:"regulated_at"`

	// agendamento (apenas em authorized)
	LocationID        *uint      `json:"location_id"`
	Location          *Location  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"location,omitempty"`
	ScheduledDate     *time.Time `gorm:"type:date;index" json:"scheduled_date"`
	ScheduledTime     string     `gorm:"size:5" json:"scheduled_time"`
	AttendingDoctorID *uint      `gorm:"index" json:"attending_doctor_id"`
	AttendingDoctor   *Doctor    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"attending_doctor,omitempty"`
	RegulationNotes   string     `gorm:"type:text" json:"regulation_notes"`

	// pendência
	PendReason     string     `gorm:"type:text" json:"pend_reason"`
	PendOpenedAt   *time.Time `json:"pend_opened_at"`
	PendOpenedBy   *uint      `json:"pend_opened_by"`
	PendRepliedAt  *time.Time `json:"pend_replied_at"`
	PendRepliedBy  *uint      `json:"pend_replied_by"`
	PendReply      string     `gorm:"type:text" json:"pend_reply"`
	PendResolvedAt *time.Time `json:"pend_resolved_at"`
	PendResolvedBy *uint      `json:"pend_resolved_by"`

	// desfecho: "" | attended | no_show
	AttendanceResult  string     `gorm:"size:10;default:''" json:"attendance_result"`
	OutcomeRecordedAt *time.Time `json:"outcome_recorded_at"`
	OutcomeRecordedBy *uint      `json:"outcome_recorded_by"`
	OutcomeNote       string     `gorm:"type:text" json:"outcome_note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
