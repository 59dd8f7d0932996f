package regulation

import (
	"context"
	"strings"

	"github.com/prefsaude/regulacao-api/internal/audit"
	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/models"
	"github.com/prefsaude/regulacao-api/internal/notify"
	"github.com/prefsaude/regulacao-api/internal/timezone"
)

const (
	SideUBS        = "ubs"
	SideRegulation = "regulation"

	MsgOpening = "opening"
	MsgMessage = "message"
	MsgReply   = "reply"
)

// Pendencia concentra o diálogo UBS ↔ regulação de uma solicitação:
// abertura, mensagens livres, resposta da UBS e resolução, com as
// transições queued ↔ pending correspondentes.
type Pendencia struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	bus   *notify.Bus
}

func NewPendencia(
	repo domain.Repository,
	audit *audit.Dispatcher,
	bus *notify.Bus,
) *Pendencia {
	return &Pendencia{
		repo:  repo,
		audit: audit,
		bus:   bus,
	}
}

// Open: regulador abre pendência com motivo; queued → pending.
func (uc *Pendencia) Open(
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
	if err := domain.OpenPendencia(req, reason, p.UserID, now); err != nil {
		return nil, err
	}

	// transição e abertura da linha do tempo na mesma transação
	if err := uc.repo.UpdateRequestWithPendencia(ctx, req, from, &models.PendenciaMessage{
		RequestID: req.ID,
		Side:      SideRegulation,
		Kind:      MsgOpening,
		AuthorID:  &p.UserID,
		Text:      reason,
	}); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "pendencia_opened",
		Entity:   "request",
		EntityID: &req.ID,
	})

	uc.bus.Publish(domain.Event{
		Kind:    domain.EventPendenciaOpened,
		Request: *req,
		ActorID: &p.UserID,
	})

	return req, nil
}

// PostMessage: mensagem livre de qualquer lado, sem transição de estado.
func (uc *Pendencia) PostMessage(
	ctx context.Context,
	p iam.Principal,
	requestID uint,
	text string,
) (*models.PendenciaMessage, error) {

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if !p.CanAccessUBS(req.UBSID) {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	if strings.TrimSpace(text) == "" {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}
	if req.PendOpenedAt == nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}

	side := SideUBS
	if p.CanRegulate() {
		side = SideRegulation
	}

	msg := models.PendenciaMessage{
		RequestID: req.ID,
		Side:      side,
		Kind:      MsgMessage,
		AuthorID:  &p.UserID,
		Text:      text,
	}

	if err := uc.repo.AppendPendencia(ctx, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}

// Reply: a UBS de origem responde; pending → queued.
func (uc *Pendencia) Reply(
	ctx context.Context,
	p iam.Principal,
	requestID uint,
	text string,
) (*models.Request, error) {

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if !p.CanSubmitFor(req.UBSID) {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	from := req.Status
	now := timezone.Now()
	if err := domain.ReplyPendencia(req, text, p.UserID, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateRequestWithPendencia(ctx, req, from, &models.PendenciaMessage{
		RequestID: req.ID,
		Side:      SideUBS,
		Kind:      MsgReply,
		AuthorID:  &p.UserID,
		Text:      text,
	}); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		UBSID:    &req.UBSID,
		Action:   "pendencia_replied",
		Entity:   "request",
		EntityID: &req.ID,
	})

	uc.bus.Publish(domain.Event{
		Kind:    domain.EventPendenciaReplied,
		Request: *req,
		ActorID: &p.UserID,
	})

	return req, nil
}

// Resolve: regulador encerra a pendência sem resposta; pending → queued.
func (uc *Pendencia) Resolve(
	ctx context.Context,
	p iam.Principal,
	requestID uint,
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
	if err := domain.ResolvePendencia(req, p.UserID, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateRequest(ctx, req, from); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "pendencia_resolved",
		Entity:   "request",
		EntityID: &req.ID,
	})

	uc.bus.Publish(domain.Event{
		Kind:    domain.EventPendenciaResolved,
		Request: *req,
		ActorID: &p.UserID,
	})

	return req, nil
}

// Timeline: mensagens em ordem de criação; visível para regulação e
// para a UBS dona da solicitação.
func (uc *Pendencia) Timeline(
	ctx context.Context,
	p iam.Principal,
	requestID uint,
) ([]models.PendenciaMessage, error) {

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if !p.CanAccessUBS(req.UBSID) {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	return uc.repo.ListPendencia(ctx, requestID)
}
