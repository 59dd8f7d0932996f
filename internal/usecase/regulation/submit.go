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

// ======================================================
// INPUT
// ======================================================

type SubmitBatchInput struct {
	Kind domain.Kind

	UBSID              uint
	RequestingDoctorID uint
	PatientID          uint

	Priority      domain.Priority
	Justification string
	Notes         string

	// exames: um ou mais tipos; consulta: exatamente uma especialidade
	ExamTypeIDs []uint
	SpecialtyID *uint
}

// ======================================================
// USE CASE
// ======================================================

// SubmitBatch cria o lote de solicitações: snapshot do paciente,
// order number compartilhado, protocolo único por item, status queued.
type SubmitBatch struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	bus   *notify.Bus
}

func NewSubmitBatch(
	repo domain.Repository,
	audit *audit.Dispatcher,
	bus *notify.Bus,
) *SubmitBatch {
	return &SubmitBatch{
		repo:  repo,
		audit: audit,
		bus:   bus,
	}
}

const protocolRetryBudget = 5

func (uc *SubmitBatch) Execute(
	ctx context.Context,
	p iam.Principal,
	in SubmitBatchInput,
) ([]models.Request, error) {

	if !p.CanSubmitFor(in.UBSID) {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	if err := validateSubmit(in); err != nil {
		return nil, err
	}

	ubs, err := uc.repo.GetUBS(ctx, in.UBSID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if _, err := uc.repo.GetDoctor(ctx, in.RequestingDoctorID); err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	patient, err := uc.repo.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	items, err := uc.resolveItems(ctx, in)
	if err != nil {
		return nil, err
	}

	now := timezone.Now()
	orderNumber := domain.NewOrderNumber(in.Kind, ubs.ID)
	prefix := domain.ProtocolPrefix(in.Kind, now)

	created := make([]models.Request, 0, len(items))

	for _, item := range items {
		req := models.Request{
			Kind:        string(in.Kind),
			OrderNumber: orderNumber,

			UBSID:              in.UBSID,
			RequestingDoctorID: in.RequestingDoctorID,

			PatientID:        patient.ID,
			PatientName:      patient.Name,
			PatientCPF:       patient.CPF,
			PatientCNS:       patient.CNS,
			PatientBirthDate: patient.BirthDate,
			PatientPhone:     patient.Phone,
			PatientAddress:   patient.Address,

			ExamTypeID:  item.examTypeID,
			SpecialtyID: item.specialtyID,

			Justification:   in.Justification,
			Priority:        string(in.Priority),
			SubmissionNotes: in.Notes,

			Status:      string(domain.InitialStatus()),
			SubmittedAt: now,
		}

		if err := uc.createWithProtocol(ctx, &req, prefix); err != nil {
			return nil, err
		}

		uc.audit.Dispatch(audit.Event{
			UserID:   &p.UserID,
			UBSID:    &in.UBSID,
			Action:   "request_submitted",
			Entity:   "request",
			EntityID: &req.ID,
		})

		uc.bus.Publish(domain.Event{
			Kind:    domain.EventSubmitted,
			Request: req,
			ActorID: &p.UserID,
		})

		created = append(created, req)
	}

	return created, nil
}

// createWithProtocol atribui o menor sufixo diário livre; colisão no
// índice único (submissão concorrente) recomeça do máximo atual, até
// esgotar o orçamento de retries.
func (uc *SubmitBatch) createWithProtocol(
	ctx context.Context,
	req *models.Request,
	prefix string,
) error {

	for attempt := 0; attempt < protocolRetryBudget; attempt++ {
		seq, err := uc.repo.MaxProtocolSeq(ctx, prefix)
		if err != nil {
			return err
		}

		req.Protocol = domain.FormatProtocol(prefix, seq+1)

		err = uc.repo.CreateRequest(ctx, req)
		if err == nil {
			return nil
		}
		if !httperr.IsUniqueViolation(err) {
			return err
		}
	}

	return httperr.ErrBusiness(httperr.CodeConflict)
}

type submitItem struct {
	examTypeID  *uint
	specialtyID *uint
}

func (uc *SubmitBatch) resolveItems(
	ctx context.Context,
	in SubmitBatchInput,
) ([]submitItem, error) {

	if in.Kind == domain.KindConsultation {
		if _, err := uc.repo.GetSpecialty(ctx, *in.SpecialtyID); err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return []submitItem{{specialtyID: in.SpecialtyID}}, nil
	}

	items := make([]submitItem, 0, len(in.ExamTypeIDs))
	for _, id := range in.ExamTypeIDs {
		if _, err := uc.repo.GetExamType(ctx, id); err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		examTypeID := id
		items = append(items, submitItem{examTypeID: &examTypeID})
	}
	return items, nil
}

func validateSubmit(in SubmitBatchInput) error {
	if !in.Kind.Valid() || !in.Priority.Valid() {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	if strings.TrimSpace(in.Justification) == "" {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}

	switch in.Kind {
	case domain.KindExam:
		if len(in.ExamTypeIDs) == 0 || in.SpecialtyID != nil {
			return httperr.ErrBusiness(httperr.CodeValidation)
		}
	case domain.KindConsultation:
		if in.SpecialtyID == nil || len(in.ExamTypeIDs) > 0 {
			return httperr.ErrBusiness(httperr.CodeValidation)
		}
	}

	return nil
}
