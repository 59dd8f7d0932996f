package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/prefsaude/regulacao-api/internal/models"
)

// --------------------------------------------------
// Capacidade (templates + buckets)
// --------------------------------------------------

// SaveTemplate faz upsert por (médico, especialidade, dia da semana).
func (r *RegulationGormRepository) SaveTemplate(
	ctx context.Context,
	t *models.WeeklyCapacityTemplate,
) error {

	var existing models.WeeklyCapacityTemplate
	err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND specialty_id = ? AND weekday = ?",
			t.DoctorID, t.SpecialtyID, t.Weekday,
		).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(t).Error
	}
	if err != nil {
		return err
	}

	existing.Capacity = t.Capacity
	existing.Active = t.Active
	t.ID = existing.ID
	return r.db.WithContext(ctx).Save(&existing).Error
}

// UpsertBucket cria o bucket da tripla ou, com overwrite, atualiza teto e
// flag. Sem overwrite, bucket existente é preservado (materialização
// idempotente). Retorna se a linha foi criada.
func (r *RegulationGormRepository) UpsertBucket(
	ctx context.Context,
	b *models.DailyCapacityBucket,
	overwrite bool,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", b.DoctorID, b.Date)

	if b.SpecialtyID != nil {
		q = q.Where("specialty_id = ?", *b.SpecialtyID)
	} else {
		q = q.Where("exam_type_id = ?", *b.ExamTypeID)
	}

	var existing models.DailyCapacityBucket
	err := q.First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if !overwrite {
		b.ID = existing.ID
		return false, nil
	}

	existing.Capacity = b.Capacity
	existing.Active = b.Active
	b.ID = existing.ID
	return false, r.db.WithContext(ctx).Save(&existing).Error
}
