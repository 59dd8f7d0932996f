package regulation

import (
	"context"

	"github.com/prefsaude/regulacao-api/internal/audit"
	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/models"
	"github.com/prefsaude/regulacao-api/internal/notify"
	"github.com/prefsaude/regulacao-api/internal/timezone"
)

// CancelRequest: a UBS de origem (ou admin) desiste de um item ainda
// na fila. Depois de regulado, só hard delete de admin libera a vaga.
type CancelRequest struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	bus   *notify.Bus
}

func NewCancelRequest(
	repo domain.Repository,
	audit *audit.Dispatcher,
	bus *notify.Bus,
) *CancelRequest {
	return &CancelRequest{
		repo:  repo,
		audit: audit,
		bus:   bus,
	}
}

func (uc *CancelRequest) Execute(
	ctx context.Context,
	p iam.Principal,
	requestID uint,
) (*models.Request, error) {

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if !p.IsAdmin() && !p.CanSubmitFor(req.UBSID) {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	from := req.Status
	now := timezone.Now()
	if err := domain.Cancel(req, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateRequest(ctx, req, from); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		UBSID:    &req.UBSID,
		Action:   "request_cancelled",
		Entity:   "request",
		EntityID: &req.ID,
	})

	uc.bus.Publish(domain.Event{
		Kind:    domain.EventCancelled,
		Request: *req,
		ActorID: &p.UserID,
	})

	return req, nil
}

// HardDelete remove em definitivo (somente admin); a exclusão de uma
// autorizada devolve a vaga do bucket, já que a contagem é derivada.
type HardDeleteRequest struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewHardDeleteRequest(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *HardDeleteRequest {
	return &HardDeleteRequest{
		repo:  repo,
		audit: audit,
	}
}

func (uc *HardDeleteRequest) Execute(
	ctx context.Context,
	p iam.Principal,
	requestID uint,
) error {

	if !p.IsAdmin() {
		return httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if err := uc.repo.DeleteRequest(ctx, req.ID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "request_hard_deleted",
		Entity:   "request",
		EntityID: &requestID,
		Metadata: map[string]any{"protocol": req.Protocol},
	})

	return nil
}
