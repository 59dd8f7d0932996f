package regulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/models"
)

func TestListRequests_RegulatorSeesAll(t *testing.T) {
	repo := &MockRepository{}
	uc := NewListRequests(repo)

	repo.On("ListRequests", mock.Anything, domain.Scope{}, mock.Anything).
		Return([]models.Request{{ID: 1}, {ID: 2}}, int64(2), nil)

	requests, total, err := uc.Execute(context.Background(), regulatorPrincipal(), domain.Filters{}, domain.Page{})
	assert.NoError(t, err)
	assert.Len(t, requests, 2)
	assert.Equal(t, int64(2), total)
}

func TestListRequests_UBSUserScopeForced(t *testing.T) {
	repo := &MockRepository{}
	uc := NewListRequests(repo)

	// mesmo filtrando outra UBS, o escopo da query é a UBS do vínculo
	other := uintPtr(9)
	repo.On("ListRequests",
		domain.Filters{UBSID: other},
		domain.Scope{UBSID: uintPtr(3)},
		mock.Anything,
	).Return([]models.Request{}, int64(0), nil)

	_, _, err := uc.Execute(context.Background(), ubsPrincipal(3), domain.Filters{UBSID: other}, domain.Page{})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListRequests_UBSUserWithoutBinding(t *testing.T) {
	repo := &MockRepository{}
	uc := NewListRequests(repo)

	p := ubsPrincipal(3)
	p.UBSID = nil

	_, _, err := uc.Execute(context.Background(), p, domain.Filters{}, domain.Page{})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))
}

func TestGetRequest_Visibility(t *testing.T) {
	repo := &MockRepository{}
	uc := NewGetRequest(repo)

	req := queuedConsultation(1)
	repo.On("GetRequest", uint(1)).Return(req, nil)

	got, err := uc.Execute(context.Background(), ubsPrincipal(3), 1)
	assert.NoError(t, err)
	assert.Equal(t, req, got)

	_, err = uc.Execute(context.Background(), ubsPrincipal(8), 1)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))

	_, err = uc.Execute(context.Background(), regulatorPrincipal(), 1)
	assert.NoError(t, err)
}

func TestPageNormalize(t *testing.T) {
	p := domain.Page{}.Normalize()
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 50, p.Size)
	assert.Equal(t, 0, p.Offset())

	p = domain.Page{Number: 3, Size: 20}.Normalize()
	assert.Equal(t, 40, p.Offset())

	p = domain.Page{Number: 1, Size: 9999}.Normalize()
	assert.Equal(t, 50, p.Size)
}
