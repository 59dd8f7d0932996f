package regulation

import (
	"strings"
	"time"

	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/models"
	"github.com/prefsaude/regulacao-api/internal/timezone"
)

// ===============================
// Domain Actions
// ===============================
//
// Cada ação valida a transição, carimba o regulador e regulated_at
// quando a mudança parte da regulação, e mexe só nos campos do próprio
// passo. A persistência fica por conta do chamador.

type AuthorizeInput struct {
	LocationID        uint
	ScheduledDate     time.Time
	ScheduledTime     string
	AttendingDoctorID uint
	Notes             string
}

func Authorize(r *models.Request, in AuthorizeInput, regulatorID uint, now time.Time) error {
	if err := CanAuthorize(Status(r.Status)); err != nil {
		return err
	}

	if in.LocationID == 0 || in.AttendingDoctorID == 0 || in.ScheduledDate.IsZero() {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	if _, err := time.Parse("15:04", in.ScheduledTime); err != nil {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}

	date := timezone.DateOnly(in.ScheduledDate)

	r.Status = string(StatusAuthorized)
	r.LocationID = &in.LocationID
	r.ScheduledDate = &date
	r.ScheduledTime = in.ScheduledTime
	r.AttendingDoctorID = &in.AttendingDoctorID
	r.RegulationNotes = in.Notes
	r.RegulatorID = &regulatorID
	r.RegulatedAt = &now
	return nil
}

func Deny(r *models.Request, reason string, regulatorID uint, now time.Time) error {
	if err := CanDeny(Status(r.Status)); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}

	r.Status = string(StatusDenied)
	r.DecisionReason = reason
	r.RegulatorID = &regulatorID
	r.RegulatedAt = &now
	return nil
}

// Cancel: apenas na fila, pela própria UBS ou admin (checado no use case).
func Cancel(r *models.Request, now time.Time) error {
	if err := CanCancel(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusCancelled)
	r.UpdatedAt = now
	return nil
}

func OpenPendencia(r *models.Request, reason string, regulatorID uint, now time.Time) error {
	if err := CanOpenPendencia(Status(r.Status)); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}

	r.Status = string(StatusPending)
	r.PendReason = reason
	r.PendOpenedAt = &now
	r.PendOpenedBy = &regulatorID
	r.RegulatorID = &regulatorID
	r.RegulatedAt = &now
	return nil
}

// ReplyPendencia devolve a solicitação à fila com a resposta da UBS.
func ReplyPendencia(r *models.Request, reply string, userID uint, now time.Time) error {
	if err := CanReturnToQueue(Status(r.Status)); err != nil {
		return err
	}
	if strings.TrimSpace(reply) == "" {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}

	r.Status = string(StatusQueued)
	r.PendReply = reply
	r.PendRepliedAt = &now
	r.PendRepliedBy = &userID
	return nil
}

func ResolvePendencia(r *models.Request, regulatorID uint, now time.Time) error {
	if err := CanReturnToQueue(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusQueued)
	r.PendResolvedAt = &now
	r.PendResolvedBy = &regulatorID
	r.RegulatorID = &regulatorID
	r.RegulatedAt = &now
	return nil
}

// RecordOutcome anota compareceu/faltou após a data agendada.
// Reanotar é permitido; cada registro recarimba autor e horário.
func RecordOutcome(r *models.Request, result AttendanceResult, note string, regulatorID uint, now time.Time) error {
	if err := CanRecordOutcome(Status(r.Status)); err != nil {
		return err
	}
	if !result.Valid() {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	if r.ScheduledDate == nil || timezone.DateOnly(now).Before(timezone.DateOnly(*r.ScheduledDate)) {
		return httperr.ErrBusiness(httperr.CodeTooEarly)
	}

	r.AttendanceResult = string(result)
	r.OutcomeNote = note
	r.OutcomeRecordedAt = &now
	r.OutcomeRecordedBy = &regulatorID
	return nil
}
