package regulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prefsaude/regulacao-api/internal/httperr"
)

func strPtr(s string) *string { return &s }

func TestUpdateTexts_UBSFields(t *testing.T) {
	repo := &MockRepository{}
	uc := NewUpdateTexts(repo, noopAudit())

	req := queuedConsultation(1)
	repo.On("GetRequest", uint(1)).Return(req, nil)
	repo.On("UpdateRequest", req, req.Status).Return(nil)

	got, err := uc.Execute(context.Background(), ubsPrincipal(3), UpdateTextsInput{
		RequestID:       1,
		Justification:   strPtr("dor torácica com irradiação"),
		SubmissionNotes: strPtr("paciente hipertenso"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "dor torácica com irradiação", got.Justification)
	assert.Equal(t, "paciente hipertenso", got.SubmissionNotes)
}

func TestUpdateTexts_UBSFieldsByRegulatorDenied(t *testing.T) {
	repo := &MockRepository{}
	uc := NewUpdateTexts(repo, noopAudit())

	repo.On("GetRequest", uint(1)).Return(queuedConsultation(1), nil)

	_, err := uc.Execute(context.Background(), regulatorPrincipal(), UpdateTextsInput{
		RequestID:     1,
		Justification: strPtr("nova justificativa"),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))
}

func TestUpdateTexts_RegulationFields(t *testing.T) {
	repo := &MockRepository{}
	uc := NewUpdateTexts(repo, noopAudit())

	req := queuedConsultation(1)
	repo.On("GetRequest", uint(1)).Return(req, nil)
	repo.On("UpdateRequest", req, req.Status).Return(nil)

	got, err := uc.Execute(context.Background(), regulatorPrincipal(), UpdateTextsInput{
		RequestID:      1,
		DecisionReason: strPtr("motivo corrigido"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "motivo corrigido", got.DecisionReason)

	// e o caminho inverso: UBS não toca campo de regulação
	_, err = uc.Execute(context.Background(), ubsPrincipal(3), UpdateTextsInput{
		RequestID:  1,
		PendReason: strPtr("x"),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))
}

func TestUpdateTexts_EmptyJustificationRejected(t *testing.T) {
	repo := &MockRepository{}
	uc := NewUpdateTexts(repo, noopAudit())

	repo.On("GetRequest", uint(1)).Return(queuedConsultation(1), nil)

	_, err := uc.Execute(context.Background(), ubsPrincipal(3), UpdateTextsInput{
		RequestID:     1,
		Justification: strPtr("   "),
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
}

func TestUpdateTexts_NoFields(t *testing.T) {
	repo := &MockRepository{}
	uc := NewUpdateTexts(repo, noopAudit())

	repo.On("GetRequest", uint(1)).Return(queuedConsultation(1), nil)

	_, err := uc.Execute(context.Background(), ubsPrincipal(3), UpdateTextsInput{RequestID: 1})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
}
