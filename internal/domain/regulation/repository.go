package regulation

import (
	"context"

	"github.com/prefsaude/regulacao-api/internal/models"
)

type Repository interface {
	// -------- Catálogo --------
	GetUBS(ctx context.Context, id uint) (*models.UBS, error)
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)
	GetDoctor(ctx context.Context, id uint) (*models.Doctor, error)
	GetSpecialty(ctx context.Context, id uint) (*models.Specialty, error)
	GetExamType(ctx context.Context, id uint) (*models.ExamType, error)
	GetLocation(ctx context.Context, id uint) (*models.Location, error)

	// -------- Solicitações --------
	CreateRequest(
		ctx context.Context,
		r *models.Request,
	) error

	GetRequest(
		ctx context.Context,
		id uint,
	) (*models.Request, error)

	// UpdateRequest persiste uma transição condicionada ao status de
	// origem; se outra transição commitou antes, devolve conflict em vez
	// de sobrescrever.
	UpdateRequest(
		ctx context.Context,
		r *models.Request,
		fromStatus string,
	) error

	// UpdateRequestWithPendencia grava transição + entrada da linha do
	// tempo atomicamente (abertura e resposta de pendência).
	UpdateRequestWithPendencia(
		ctx context.Context,
		r *models.Request,
		fromStatus string,
		m *models.PendenciaMessage,
	) error

	DeleteRequest(
		ctx context.Context,
		id uint,
	) error

	ListRequests(
		ctx context.Context,
		f Filters,
		scope Scope,
		page Page,
	) ([]models.Request, int64, error)

	// MaxProtocolSeq devolve o maior sufixo diário já atribuído para o
	// prefixo (0 se nenhum).
	MaxProtocolSeq(
		ctx context.Context,
		prefix string,
	) (int, error)

	// -------- Reserva / autorização --------
	// ReserveAndAuthorize persiste a autorização junto com a checagem de
	// capacidade, em uma única transação serializada no bucket.
	ReserveAndAuthorize(
		ctx context.Context,
		r *models.Request,
	) error

	// -------- Pendência --------
	AppendPendencia(
		ctx context.Context,
		m *models.PendenciaMessage,
	) error

	ListPendencia(
		ctx context.Context,
		requestID uint,
	) ([]models.PendenciaMessage, error)
}
