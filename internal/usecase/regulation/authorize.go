package regulation

import (
	"context"
	"time"

	"github.com/prefsaude/regulacao-api/internal/audit"
	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/infra/lock"
	"github.com/prefsaude/regulacao-api/internal/models"
	"github.com/prefsaude/regulacao-api/internal/notify"
	"github.com/prefsaude/regulacao-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type AuthorizeInput struct {
	RequestID uint

	LocationID        uint
	ScheduledDate     time.Time
	ScheduledTime     string
	AttendingDoctorID uint
	Notes             string
}

// ======================================================
// USE CASE
// ======================================================

// AuthorizeRequest fecha queued → authorized: valida agenda, trava a
// tripla (médico, especialidade|exame, data) e reserva a vaga na mesma
// transação da gravação.
type AuthorizeRequest struct {
	repo  domain.Repository
	locks lock.Keyed
	audit *audit.Dispatcher
	bus   *notify.Bus
}

func NewAuthorizeRequest(
	repo domain.Repository,
	locks lock.Keyed,
	audit *audit.Dispatcher,
	bus *notify.Bus,
) *AuthorizeRequest {
	return &AuthorizeRequest{
		repo:  repo,
		locks: locks,
		audit: audit,
		bus:   bus,
	}
}

func (uc *AuthorizeRequest) Execute(
	ctx context.Context,
	p iam.Principal,
	in AuthorizeInput,
) (*models.Request, error) {

	if !p.CanRegulate() {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	req, err := uc.repo.GetRequest(ctx, in.RequestID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	location, err := uc.repo.GetLocation(ctx, in.LocationID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if _, err := uc.repo.GetDoctor(ctx, in.AttendingDoctorID); err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	now := timezone.Now()
	if err := domain.Authorize(req, domain.AuthorizeInput{
		LocationID:        in.LocationID,
		ScheduledDate:     in.ScheduledDate,
		ScheduledTime:     in.ScheduledTime,
		AttendingDoctorID: in.AttendingDoctorID,
		Notes:             in.Notes,
	}, p.UserID, now); err != nil {
		return nil, err
	}

	// a notificação de autorização carrega o local junto com data e hora
	req.Location = location

	release, err := uc.locks.Acquire(ctx, domain.ReservationKey(req))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := uc.repo.ReserveAndAuthorize(ctx, req); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "request_authorized",
		Entity:   "request",
		EntityID: &req.ID,
	})

	uc.bus.Publish(domain.Event{
		Kind:    domain.EventAuthorized,
		Request: *req,
		ActorID: &p.UserID,
	})

	return req, nil
}

// ======================================================
// BATCH (por paciente)
// ======================================================

type BatchAuthorizeItem struct {
	Input AuthorizeInput
	Error error
}

// ExecuteBatch autoriza vários itens de um mesmo paciente; cada item é
// atômico por si, e a falha de um não derruba os demais.
func (uc *AuthorizeRequest) ExecuteBatch(
	ctx context.Context,
	p iam.Principal,
	patientID uint,
	inputs []AuthorizeInput,
) ([]BatchAuthorizeItem, error) {

	if !p.CanRegulate() {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	results := make([]BatchAuthorizeItem, 0, len(inputs))

	for _, in := range inputs {
		item := BatchAuthorizeItem{Input: in}

		req, err := uc.repo.GetRequest(ctx, in.RequestID)
		switch {
		case err != nil:
			item.Error = httperr.ErrBusiness(httperr.CodeNotFound)
		case req.PatientID != patientID:
			item.Error = httperr.ErrBusiness(httperr.CodeValidation)
		default:
			_, item.Error = uc.Execute(ctx, p, in)
		}

		results = append(results, item)
	}

	return results, nil
}
