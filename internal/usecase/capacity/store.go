package capacity

import (
	"context"

	"github.com/prefsaude/regulacao-api/internal/models"
)

// Store é a fatia de persistência que a capacidade precisa; o
// repositório gorm de regulação a satisfaz.
type Store interface {
	GetDoctor(ctx context.Context, id uint) (*models.Doctor, error)
	GetSpecialty(ctx context.Context, id uint) (*models.Specialty, error)
	GetExamType(ctx context.Context, id uint) (*models.ExamType, error)

	SaveTemplate(ctx context.Context, t *models.WeeklyCapacityTemplate) error

	// UpsertBucket devolve true quando a linha foi criada; com
	// overwrite=false, bucket existente fica intacto.
	UpsertBucket(ctx context.Context, b *models.DailyCapacityBucket, overwrite bool) (bool, error)
}
