package regulation

import (
	"context"
	"time"

	"github.com/prefsaude/regulacao-api/internal/audit"
	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/models"
	"github.com/prefsaude/regulacao-api/internal/notify"
	"github.com/prefsaude/regulacao-api/internal/timezone"
)

// RecordOutcome anota compareceu/faltou em solicitação autorizada, só a
// partir da data agendada. Reanotar substitui o resultado; o registro
// anterior permanece no log de auditoria.
type RecordOutcome struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	bus   *notify.Bus
}

func NewRecordOutcome(
	repo domain.Repository,
	audit *audit.Dispatcher,
	bus *notify.Bus,
) *RecordOutcome {
	return &RecordOutcome{
		repo:  repo,
		audit: audit,
		bus:   bus,
	}
}

func (uc *RecordOutcome) Execute(
	ctx context.Context,
	p iam.Principal,
	requestID uint,
	result domain.AttendanceResult,
	note string,
) (*models.Request, error) {

	if !p.CanRegulate() {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	from := req.Status
	now := timezone.Now()
	if err := domain.RecordOutcome(req, result, note, p.UserID, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateRequest(ctx, req, from); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "outcome_recorded",
		Entity:   "request",
		EntityID: &req.ID,
		Metadata: map[string]any{"result": string(result)},
	})

	uc.bus.Publish(domain.Event{
		Kind:    domain.EventOutcomeRecorded,
		Request: *req,
		ActorID: &p.UserID,
	})

	return req, nil
}

// ======================================================
// BATCH (dia de agenda)
// ======================================================

type OutcomeItem struct {
	RequestID uint
	Result    domain.AttendanceResult
	Note      string
}

type OutcomeItemResult struct {
	RequestID uint
	Error     error
}

// ExecuteBatch aplica cada item de forma independente e atômica; um
// too_early no meio da lista não impede os demais. Quando day é
// informado, só entram itens agendados para aquele dia — o lote fecha a
// agenda de um dia, não uma lista solta de ids.
func (uc *RecordOutcome) ExecuteBatch(
	ctx context.Context,
	p iam.Principal,
	day time.Time,
	items []OutcomeItem,
) ([]OutcomeItemResult, error) {

	if !p.CanRegulate() {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	results := make([]OutcomeItemResult, 0, len(items))
	for _, item := range items {
		if !day.IsZero() {
			if err := uc.checkScheduledDay(ctx, item.RequestID, day); err != nil {
				results = append(results, OutcomeItemResult{
					RequestID: item.RequestID,
					Error:     err,
				})
				continue
			}
		}

		_, err := uc.Execute(ctx, p, item.RequestID, item.Result, item.Note)
		results = append(results, OutcomeItemResult{
			RequestID: item.RequestID,
			Error:     err,
		})
	}

	return results, nil
}

func (uc *RecordOutcome) checkScheduledDay(
	ctx context.Context,
	requestID uint,
	day time.Time,
) error {

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if req.ScheduledDate == nil ||
		!timezone.DateOnly(*req.ScheduledDate).Equal(timezone.DateOnly(day)) {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	return nil
}
