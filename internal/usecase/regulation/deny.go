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

type DenyRequest struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	bus   *notify.Bus
}

func NewDenyRequest(
	repo domain.Repository,
	audit *audit.Dispatcher,
	bus *notify.Bus,
) *DenyRequest {
	return &DenyRequest{
		repo:  repo,
		audit: audit,
		bus:   bus,
	}
}

func (uc *DenyRequest) Execute(
	ctx context.Context,
	p iam.Principal,
	requestID uint,
	reason string,
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
	if err := domain.Deny(req, reason, p.UserID, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateRequest(ctx, req, from); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "request_denied",
		Entity:   "request",
		EntityID: &req.ID,
	})

	uc.bus.Publish(domain.Event{
		Kind:    domain.EventDenied,
		Request: *req,
		ActorID: &p.UserID,
	})

	return req, nil
}
