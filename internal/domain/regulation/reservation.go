package regulation

import (
	"fmt"

	"github.com/prefsaude/regulacao-api/internal/models"
)

// ReservationKey identifica a seção crítica de reserva: a tripla
// (médico executante, especialidade|tipo de exame, data). Triplas
// distintas nunca se bloqueiam.
func ReservationKey(r *models.Request) string {
	var payload string
	if r.SpecialtyID != nil {
		payload = fmt.Sprintf("spec:%d", *r.SpecialtyID)
	} else if r.ExamTypeID != nil {
		payload = fmt.Sprintf("exam:%d", *r.ExamTypeID)
	}

	var doctor uint
	if r.AttendingDoctorID != nil {
		doctor = *r.AttendingDoctorID
	}

	var date string
	if r.ScheduledDate != nil {
		date = r.ScheduledDate.Format("2006-01-02")
	}

	return fmt.Sprintf("reserve:%d:%s:%s", doctor, payload, date)
}
