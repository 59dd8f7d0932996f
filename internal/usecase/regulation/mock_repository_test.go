package regulation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/prefsaude/regulacao-api/internal/audit"
	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/models"
	"github.com/prefsaude/regulacao-api/internal/notify"
)

// MockRepository is a mock implementation of domain.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUBS(ctx context.Context, id uint) (*models.UBS, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UBS), args.Error(1)
}

func (m *MockRepository) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Patient), args.Error(1)
}

func (m *MockRepository) GetDoctor(ctx context.Context, id uint) (*models.Doctor, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Doctor), args.Error(1)
}

func (m *MockRepository) GetSpecialty(ctx context.Context, id uint) (*models.Specialty, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Specialty), args.Error(1)
}

func (m *MockRepository) GetExamType(ctx context.Context, id uint) (*models.ExamType, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamType), args.Error(1)
}

func (m *MockRepository) GetLocation(ctx context.Context, id uint) (*models.Location, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockRepository) CreateRequest(ctx context.Context, r *models.Request) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockRepository) GetRequest(ctx context.Context, id uint) (*models.Request, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRepository) UpdateRequest(ctx context.Context, r *models.Request, fromStatus string) error {
	args := m.Called(r, fromStatus)
	return args.Error(0)
}

func (m *MockRepository) UpdateRequestWithPendencia(
	ctx context.Context,
	r *models.Request,
	fromStatus string,
	msg *models.PendenciaMessage,
) error {
	args := m.Called(r, fromStatus, msg)
	return args.Error(0)
}

func (m *MockRepository) DeleteRequest(ctx context.Context, id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepository) ListRequests(
	ctx context.Context,
	f domain.Filters,
	scope domain.Scope,
	page domain.Page,
) ([]models.Request, int64, error) {
	args := m.Called(f, scope, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Request), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) MaxProtocolSeq(ctx context.Context, prefix string) (int, error) {
	args := m.Called(prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ReserveAndAuthorize(ctx context.Context, r *models.Request) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockRepository) AppendPendencia(ctx context.Context, msg *models.PendenciaMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockRepository) ListPendencia(ctx context.Context, requestID uint) ([]models.PendenciaMessage, error) {
	args := m.Called(requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PendenciaMessage), args.Error(1)
}

var _ domain.Repository = (*MockRepository)(nil)

// ---------- helpers ----------

// dispatcher/bus de valor zero: fila nil, eventos são descartados.
func noopAudit() *audit.Dispatcher { return &audit.Dispatcher{} }
func noopBus() *notify.Bus         { return &notify.Bus{} }

func regulatorPrincipal() iam.Principal {
	return iam.Principal{UserID: 99, Role: iam.RoleRegulator}
}

func adminPrincipal() iam.Principal {
	return iam.Principal{UserID: 1, Role: iam.RoleAdmin}
}

func ubsPrincipal(ubsID uint) iam.Principal {
	return iam.Principal{UserID: 5, Role: iam.RoleUBSUser, UBSID: &ubsID}
}

func uintPtr(v uint) *uint { return &v }
