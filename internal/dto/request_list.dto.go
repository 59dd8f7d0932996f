package dto

import (
	"time"

	"github.com/prefsaude/regulacao-api/internal/models"
)

// RequestListDTO é a projeção enxuta para as telas de fila.
type RequestListDTO struct {
	ID          uint   `json:"id"`
	Kind        string `json:"kind"`
	Protocol    string `json:"protocol"`
	OrderNumber string `json:"order_number"`

	PatientName string `json:"patient_name"`
	UBSName     string `json:"ubs_name"`
	Item        string `json:"item"`

	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`

	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	ScheduledTime   string     `json:"scheduled_time,omitempty"`
	AttendingDoctor string     `json:"attending_doctor,omitempty"`
	LocationName    string     `json:"location_name,omitempty"`
}

func RequestListFrom(r models.Request) RequestListDTO {
	out := RequestListDTO{
		ID:          r.ID,
		Kind:        r.Kind,
		Protocol:    r.Protocol,
		OrderNumber: r.OrderNumber,
		PatientName: r.PatientName,
		UBSName:     r.UBS.Name,
		Priority:    r.Priority,
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt,

		ScheduledDate: r.ScheduledDate,
		ScheduledTime: r.ScheduledTime,
	}

	if r.ExamType != nil {
		out.Item = r.ExamType.Name
	} else if r.Specialty != nil {
		out.Item = r.Specialty.Name
	}

	if r.AttendingDoctor != nil {
		out.AttendingDoctor = r.AttendingDoctor.Name
	}
	if r.Location != nil {
		out.LocationName = r.Location.Name
	}

	return out
}
