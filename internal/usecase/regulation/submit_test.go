package regulation

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/models"
	"github.com/prefsaude/regulacao-api/internal/timezone"
)

func consultationInput(ubsID uint) SubmitBatchInput {
	return SubmitBatchInput{
		Kind:               domain.KindConsultation,
		UBSID:              ubsID,
		RequestingDoctorID: 7,
		PatientID:          12,
		Priority:           domain.PriorityHigh,
		Justification:      "dor torácica recorrente",
		SpecialtyID:        uintPtr(4),
	}
}

func stubCatalog(repo *MockRepository, ubsID uint) {
	repo.On("GetUBS", ubsID).Return(&models.UBS{ID: ubsID, Name: "UBS Centro"}, nil)
	repo.On("GetDoctor", uint(7)).Return(&models.Doctor{ID: 7, Name: "Dra. Lima"}, nil)
	repo.On("GetPatient", uint(12)).Return(&models.Patient{
		ID:   12,
		Name: "João da Silva",
		CPF:  "123.456.789-00",
		CNS:  "898001160660000",
	}, nil)
}

func TestSubmitConsultation(t *testing.T) {
	repo := &MockRepository{}
	uc := NewSubmitBatch(repo, noopAudit(), noopBus())

	stubCatalog(repo, 3)
	repo.On("GetSpecialty", uint(4)).Return(&models.Specialty{ID: 4, Name: "Cardiologia"}, nil)

	prefix := domain.ProtocolPrefix(domain.KindConsultation, timezone.Now())
	repo.On("MaxProtocolSeq", prefix).Return(0, nil)
	repo.On("CreateRequest", mock.AnythingOfType("*models.Request")).Return(nil)

	created, err := uc.Execute(context.Background(), ubsPrincipal(3), consultationInput(3))
	assert.NoError(t, err)
	assert.Len(t, created, 1)

	req := created[0]
	assert.Equal(t, domain.FormatProtocol(prefix, 1), req.Protocol)
	assert.Regexp(t, domain.ProtocolRegexp, req.Protocol)
	assert.Regexp(t, domain.OrderNumberRegexp, req.OrderNumber)
	assert.Equal(t, string(domain.StatusQueued), req.Status)
	assert.Equal(t, uint(4), *req.SpecialtyID)
	assert.Nil(t, req.ExamTypeID)

	// snapshot demográfico congelado na submissão
	assert.Equal(t, "João da Silva", req.PatientName)
	assert.Equal(t, "123.456.789-00", req.PatientCPF)

	repo.AssertExpectations(t)
}

func TestSubmitExamBatch_SharesOrderNumber(t *testing.T) {
	repo := &MockRepository{}
	uc := NewSubmitBatch(repo, noopAudit(), noopBus())

	stubCatalog(repo, 3)
	repo.On("GetExamType", uint(21)).Return(&models.ExamType{ID: 21}, nil)
	repo.On("GetExamType", uint(22)).Return(&models.ExamType{ID: 22}, nil)

	prefix := domain.ProtocolPrefix(domain.KindExam, timezone.Now())
	repo.On("MaxProtocolSeq", prefix).Return(0, nil).Once()
	repo.On("MaxProtocolSeq", prefix).Return(1, nil).Once()
	repo.On("CreateRequest", mock.AnythingOfType("*models.Request")).Return(nil)

	created, err := uc.Execute(context.Background(), ubsPrincipal(3), SubmitBatchInput{
		Kind:               domain.KindExam,
		UBSID:              3,
		RequestingDoctorID: 7,
		PatientID:          12,
		Priority:           domain.PriorityNormal,
		Justification:      "check-up pós-operatório",
		ExamTypeIDs:        []uint{21, 22},
	})
	assert.NoError(t, err)
	assert.Len(t, created, 2)

	// order number compartilhado, protocolos distintos e sequenciais
	assert.Equal(t, created[0].OrderNumber, created[1].OrderNumber)
	assert.Equal(t, domain.FormatProtocol(prefix, 1), created[0].Protocol)
	assert.Equal(t, domain.FormatProtocol(prefix, 2), created[1].Protocol)
	assert.Equal(t, uint(21), *created[0].ExamTypeID)
	assert.Equal(t, uint(22), *created[1].ExamTypeID)
}

func TestSubmit_ProtocolCollisionRetries(t *testing.T) {
	repo := &MockRepository{}
	uc := NewSubmitBatch(repo, noopAudit(), noopBus())

	stubCatalog(repo, 3)
	repo.On("GetSpecialty", uint(4)).Return(&models.Specialty{ID: 4}, nil)

	prefix := domain.ProtocolPrefix(domain.KindConsultation, timezone.Now())
	repo.On("MaxProtocolSeq", prefix).Return(0, nil).Once()
	repo.On("MaxProtocolSeq", prefix).Return(1, nil).Once()

	// submissão concorrente levou o -0001; o retry pega o próximo
	dup := &pgconn.PgError{Code: "23505"}
	repo.On("CreateRequest", mock.AnythingOfType("*models.Request")).Return(dup).Once()
	repo.On("CreateRequest", mock.AnythingOfType("*models.Request")).Return(nil).Once()

	created, err := uc.Execute(context.Background(), ubsPrincipal(3), consultationInput(3))
	assert.NoError(t, err)
	assert.Equal(t, domain.FormatProtocol(prefix, 2), created[0].Protocol)
}

func TestSubmit_ProtocolRetryBudgetExhausted(t *testing.T) {
	repo := &MockRepository{}
	uc := NewSubmitBatch(repo, noopAudit(), noopBus())

	stubCatalog(repo, 3)
	repo.On("GetSpecialty", uint(4)).Return(&models.Specialty{ID: 4}, nil)

	prefix := domain.ProtocolPrefix(domain.KindConsultation, timezone.Now())
	repo.On("MaxProtocolSeq", prefix).Return(0, nil)
	repo.On("CreateRequest", mock.AnythingOfType("*models.Request")).
		Return(&pgconn.PgError{Code: "23505"})

	_, err := uc.Execute(context.Background(), ubsPrincipal(3), consultationInput(3))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeConflict))
	repo.AssertNumberOfCalls(t, "CreateRequest", 5)
}

func TestSubmit_ForeignUBSDenied(t *testing.T) {
	repo := &MockRepository{}
	uc := NewSubmitBatch(repo, noopAudit(), noopBus())

	_, err := uc.Execute(context.Background(), ubsPrincipal(3), consultationInput(4))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))
	repo.AssertNotCalled(t, "CreateRequest", mock.Anything)
}

func TestSubmit_RegulatorCannotSubmit(t *testing.T) {
	repo := &MockRepository{}
	uc := NewSubmitBatch(repo, noopAudit(), noopBus())

	_, err := uc.Execute(context.Background(), regulatorPrincipal(), consultationInput(3))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))
}

func TestSubmit_Validation(t *testing.T) {
	repo := &MockRepository{}
	uc := NewSubmitBatch(repo, noopAudit(), noopBus())

	cases := map[string]func(*SubmitBatchInput){
		"sem justificativa":           func(in *SubmitBatchInput) { in.Justification = "  " },
		"prioridade inválida":         func(in *SubmitBatchInput) { in.Priority = "urgentissima" },
		"consulta sem especialidade":  func(in *SubmitBatchInput) { in.SpecialtyID = nil },
		"consulta com tipos de exame": func(in *SubmitBatchInput) { in.ExamTypeIDs = []uint{1} },
	}

	for name, mutate := range cases {
		in := consultationInput(3)
		mutate(&in)

		_, err := uc.Execute(context.Background(), ubsPrincipal(3), in)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation), name)
	}

	// exame sem nenhum tipo
	_, err := uc.Execute(context.Background(), ubsPrincipal(3), SubmitBatchInput{
		Kind:               domain.KindExam,
		UBSID:              3,
		RequestingDoctorID: 7,
		PatientID:          12,
		Priority:           domain.PriorityNormal,
		Justification:      "x",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
}
