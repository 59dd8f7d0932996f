package regulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
)

func TestCancelRequest_ByOwningUBS(t *testing.T) {
	repo := &MockRepository{}
	uc := NewCancelRequest(repo, noopAudit(), noopBus())

	req := queuedConsultation(1)
	repo.On("GetRequest", uint(1)).Return(req, nil)
	repo.On("UpdateRequest", req, string(domain.StatusQueued)).Return(nil)

	got, err := uc.Execute(context.Background(), ubsPrincipal(3), 1)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
}

func TestCancelRequest_ForeignUBSDenied(t *testing.T) {
	repo := &MockRepository{}
	uc := NewCancelRequest(repo, noopAudit(), noopBus())

	repo.On("GetRequest", uint(1)).Return(queuedConsultation(1), nil)

	_, err := uc.Execute(context.Background(), ubsPrincipal(8), 1)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))
}

func TestCancelRequest_OnlyQueued(t *testing.T) {
	repo := &MockRepository{}
	uc := NewCancelRequest(repo, noopAudit(), noopBus())

	req := queuedConsultation(1)
	req.Status = string(domain.StatusAuthorized)
	repo.On("GetRequest", uint(1)).Return(req, nil)

	_, err := uc.Execute(context.Background(), ubsPrincipal(3), 1)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
	repo.AssertNotCalled(t, "UpdateRequest", mock.Anything, mock.Anything)
}

func TestHardDelete_AdminOnly(t *testing.T) {
	repo := &MockRepository{}
	uc := NewHardDeleteRequest(repo, noopAudit())

	err := uc.Execute(context.Background(), regulatorPrincipal(), 1)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))

	err = uc.Execute(context.Background(), ubsPrincipal(3), 1)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))

	repo.AssertNotCalled(t, "DeleteRequest", mock.Anything)
}

func TestHardDelete(t *testing.T) {
	repo := &MockRepository{}
	uc := NewHardDeleteRequest(repo, noopAudit())

	// até uma autorizada pode ser removida; a vaga volta por derivação
	req := queuedConsultation(1)
	req.Status = string(domain.StatusAuthorized)
	repo.On("GetRequest", uint(1)).Return(req, nil)
	repo.On("DeleteRequest", uint(1)).Return(nil)

	assert.NoError(t, uc.Execute(context.Background(), adminPrincipal(), 1))
	repo.AssertExpectations(t)
}
