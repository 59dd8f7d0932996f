package regulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
)

func TestDenyRequest(t *testing.T) {
	repo := &MockRepository{}
	uc := NewDenyRequest(repo, noopAudit(), noopBus())

	req := queuedConsultation(1)
	repo.On("GetRequest", uint(1)).Return(req, nil)
	repo.On("UpdateRequest", req, string(domain.StatusQueued)).Return(nil)

	got, err := uc.Execute(context.Background(), regulatorPrincipal(), 1, "fora do protocolo clínico")
	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusDenied), got.Status)
	assert.Equal(t, "fora do protocolo clínico", got.DecisionReason)
	assert.Equal(t, uint(99), *got.RegulatorID)
}

func TestDenyRequest_ReasonRequired(t *testing.T) {
	repo := &MockRepository{}
	uc := NewDenyRequest(repo, noopAudit(), noopBus())

	repo.On("GetRequest", uint(1)).Return(queuedConsultation(1), nil)

	_, err := uc.Execute(context.Background(), regulatorPrincipal(), 1, "  ")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
	repo.AssertNotCalled(t, "UpdateRequest", mock.Anything, mock.Anything)
}

func TestDenyRequest_StaleReadSurfacesConflict(t *testing.T) {
	repo := &MockRepository{}
	uc := NewDenyRequest(repo, noopAudit(), noopBus())

	// a cópia lida ainda diz queued, mas outra transição commitou antes:
	// a escrita condicional não afeta linha nenhuma e devolve conflict
	req := queuedConsultation(1)
	repo.On("GetRequest", uint(1)).Return(req, nil)
	repo.On("UpdateRequest", req, string(domain.StatusQueued)).
		Return(httperr.ErrBusiness(httperr.CodeConflict))

	_, err := uc.Execute(context.Background(), regulatorPrincipal(), 1, "fora do protocolo")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeConflict))
}

func TestDenyRequest_UBSUserDenied(t *testing.T) {
	repo := &MockRepository{}
	uc := NewDenyRequest(repo, noopAudit(), noopBus())

	_, err := uc.Execute(context.Background(), ubsPrincipal(3), 1, "motivo")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))
}
