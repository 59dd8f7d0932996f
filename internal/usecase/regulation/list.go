package regulation

import (
	"context"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/models"
)

// ListRequests aplica o escopo de visibilidade antes de qualquer filtro:
// usuário de UBS nunca enxerga fila alheia, nem com filtro explícito.
type ListRequests struct {
	repo domain.Repository
}

func NewListRequests(repo domain.Repository) *ListRequests {
	return &ListRequests{repo: repo}
}

func (uc *ListRequests) Execute(
	ctx context.Context,
	p iam.Principal,
	f domain.Filters,
	page domain.Page,
) ([]models.Request, int64, error) {

	scope := domain.Scope{}
	if !p.CanRegulate() {
		if p.UBSID == nil {
			return nil, 0, httperr.ErrBusiness(httperr.CodeAccessDenied)
		}
		scope.UBSID = p.UBSID
	}

	return uc.repo.ListRequests(ctx, f, scope, page)
}

type GetRequest struct {
	repo domain.Repository
}

func NewGetRequest(repo domain.Repository) *GetRequest {
	return &GetRequest{repo: repo}
}

func (uc *GetRequest) Execute(
	ctx context.Context,
	p iam.Principal,
	requestID uint,
) (*models.Request, error) {

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if !p.CanAccessUBS(req.UBSID) {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	return req, nil
}
