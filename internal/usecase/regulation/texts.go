package regulation

import (
	"context"
	"strings"

	"github.com/prefsaude/regulacao-api/internal/audit"
	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/models"
)

// UpdateTextsInput: somente campos narrativos; estado e agenda intocados.
type UpdateTextsInput struct {
	RequestID uint

	Justification   *string
	SubmissionNotes *string
	DecisionReason  *string
	PendReason      *string
}

// UpdateTexts corrige textos sem mexer na máquina de estados. Campos da
// UBS (justificativa, observações) só pela UBS dona; campos da regulação
// (motivo de decisão, motivo de pendência) só por regulador.
type UpdateTexts struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateTexts(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateTexts {
	return &UpdateTexts{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateTexts) Execute(
	ctx context.Context,
	p iam.Principal,
	in UpdateTextsInput,
) (*models.Request, error) {

	req, err := uc.repo.GetRequest(ctx, in.RequestID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	changed := []string{}

	if in.Justification != nil || in.SubmissionNotes != nil {
		if !p.IsAdmin() && !p.CanSubmitFor(req.UBSID) {
			return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
		}

		if in.Justification != nil {
			if strings.TrimSpace(*in.Justification) == "" {
				return nil, httperr.ErrBusiness(httperr.CodeValidation)
			}
			req.Justification = *in.Justification
			changed = append(changed, "justification")
		}
		if in.SubmissionNotes != nil {
			req.SubmissionNotes = *in.SubmissionNotes
			changed = append(changed, "submission_notes")
		}
	}

	if in.DecisionReason != nil || in.PendReason != nil {
		if !p.CanRegulate() {
			return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
		}

		if in.DecisionReason != nil {
			req.DecisionReason = *in.DecisionReason
			changed = append(changed, "decision_reason")
		}
		if in.PendReason != nil {
			req.PendReason = *in.PendReason
			changed = append(changed, "pend_reason")
		}
	}

	if len(changed) == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	if err := uc.repo.UpdateRequest(ctx, req, req.Status); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "request_texts_updated",
		Entity:   "request",
		EntityID: &req.ID,
		Metadata: map[string]any{"fields": changed},
	})

	return req, nil
}
