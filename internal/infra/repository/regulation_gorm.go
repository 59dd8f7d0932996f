package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/models"
)

type RegulationGormRepository struct {
	db *gorm.DB
}

func NewRegulationGormRepository(db *gorm.DB) *RegulationGormRepository {
	return &RegulationGormRepository{db: db}
}

// --------------------------------------------------
// Catálogo
// --------------------------------------------------

func (r *RegulationGormRepository) GetUBS(
	ctx context.Context,
	id uint,
) (*models.UBS, error) {

	var ubs models.UBS
	if err := r.db.WithContext(ctx).First(&ubs, id).Error; err != nil {
		return nil, err
	}
	return &ubs, nil
}

func (r *RegulationGormRepository) GetPatient(
	ctx context.Context,
	id uint,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RegulationGormRepository) GetDoctor(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var d models.Doctor
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *RegulationGormRepository) GetSpecialty(
	ctx context.Context,
	id uint,
) (*models.Specialty, error) {

	var s models.Specialty
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RegulationGormRepository) GetExamType(
	ctx context.Context,
	id uint,
) (*models.ExamType, error) {

	var e models.ExamType
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *RegulationGormRepository) GetLocation(
	ctx context.Context,
	id uint,
) (*models.Location, error) {

	var l models.Location
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// --------------------------------------------------
// Solicitações
// --------------------------------------------------

func (r *RegulationGormRepository) CreateRequest(
	ctx context.Context,
	req *models.Request,
) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RegulationGormRepository) GetRequest(
	ctx context.Context,
	id uint,
) (*models.Request, error) {

	var req models.Request
	if err := r.db.WithContext(ctx).
		Preload("UBS").
		Preload("RequestingDoctor").
		Preload("ExamType").
		Preload("Specialty").
		Preload("Location").
		Preload("AttendingDoctor").
		First(&req, id).Error; err != nil {
		return nil, err
	}

	return &req, nil
}

// UpdateRequest grava a linha inteira condicionada ao status de origem.
// Zero linhas afetadas significa que outra transição commitou entre a
// leitura e a escrita; o chamador recebe conflict e ninguém sobrescreve
// um estado terminal com dado velho.
func (r *RegulationGormRepository) UpdateRequest(
	ctx context.Context,
	req *models.Request,
	fromStatus string,
) error {
	return saveTransition(r.db.WithContext(ctx), req, fromStatus)
}

// UpdateRequestWithPendencia fecha transição e entrada da linha do tempo
// na mesma transação: ou a solicitação muda de status com a mensagem
// gravada, ou nada é persistido.
func (r *RegulationGormRepository) UpdateRequestWithPendencia(
	ctx context.Context,
	req *models.Request,
	fromStatus string,
	m *models.PendenciaMessage,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveTransition(tx, req, fromStatus); err != nil {
			return err
		}
		return tx.Create(m).Error
	})
}

func saveTransition(tx *gorm.DB, req *models.Request, fromStatus string) error {
	res := tx.Model(&models.Request{}).
		Where("id = ? AND status = ?", req.ID, fromStatus).
		Select("*").
		Omit("id", "created_at").
		Omit(clause.Associations).
		Updates(req)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeConflict)
	}
	return nil
}

func (r *RegulationGormRepository) DeleteRequest(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("request_id = ?", id).
			Delete(&models.PendenciaMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Request{}, id).Error
	})
}

// ListRequests compila o conjunto fechado de filtros em predicados
// parametrizados; o escopo de UBS entra sempre antes dos filtros.
func (r *RegulationGormRepository) ListRequests(
	ctx context.Context,
	f domain.Filters,
	scope domain.Scope,
	page domain.Page,
) ([]models.Request, int64, error) {

	page = page.Normalize()

	q := r.db.WithContext(ctx).Model(&models.Request{})

	if scope.UBSID != nil {
		q = q.Where("ubs_id = ?", *scope.UBSID)
	}

	if f.Kind != nil {
		q = q.Where("kind = ?", string(*f.Kind))
	}
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", string(*f.Priority))
	}
	if f.DateFrom != nil {
		q = q.Where("submitted_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("submitted_at < ?", f.DateTo.Add(24*time.Hour))
	}
	if f.PatientID != nil {
		q = q.Where("patient_id = ?", *f.PatientID)
	}
	if f.UBSID != nil {
		q = q.Where("ubs_id = ?", *f.UBSID)
	}
	if f.SpecialtyID != nil {
		q = q.Where("specialty_id = ?", *f.SpecialtyID)
	}
	if f.ExamTypeID != nil {
		q = q.Where("exam_type_id = ?", *f.ExamTypeID)
	}

	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(protocol) LIKE ? OR LOWER(order_number) LIKE ? OR LOWER(patient_name) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.Request
	err := q.
		Preload("UBS").
		Preload("ExamType").
		Preload("Specialty").
		Preload("Location").
		Preload("AttendingDoctor").
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL: "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, submitted_at ASC, id ASC",
		}}).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&requests).Error

	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *RegulationGormRepository) MaxProtocolSeq(
	ctx context.Context,
	prefix string,
) (int, error) {

	var protocol string
	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Select("protocol").
		Where("protocol LIKE ?", prefix+"-%").
		Order("protocol DESC").
		Limit(1).
		Scan(&protocol).Error

	if err != nil {
		return 0, err
	}
	if protocol == "" {
		return 0, nil
	}

	seq, ok := domain.ProtocolSeq(protocol)
	if !ok {
		return 0, nil
	}
	return seq, nil
}

// --------------------------------------------------
// Reserva / autorização
// --------------------------------------------------

// ReserveAndAuthorize fecha a autorização na mesma transação da checagem
// de capacidade: bucket travado com FOR UPDATE, contagem das autorizadas
// que compartilham a tripla, gravação da solicitação. Dois autorizadores
// disputando a última vaga produzem exatamente um sucesso e um overbook.
//
// Consulta sem bucket materializado falha com no_bucket; exame sem bucket
// é admitido sem teto (o bucket de exame é opcional).
func (r *RegulationGormRepository) ReserveAndAuthorize(
	ctx context.Context,
	req *models.Request,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// trava a própria solicitação e reconfere o status dentro da
		// transação: a guarda do use case pode ter avaliado uma cópia velha
		var current models.Request
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("status").
			First(&current, req.ID).Error; err != nil {
			return err
		}
		if err := domain.CanAuthorize(domain.Status(current.Status)); err != nil {
			return err
		}

		bucketQ := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("doctor_id = ? AND date = ?", *req.AttendingDoctorID, *req.ScheduledDate)

		countQ := tx.
			Model(&models.Request{}).
			Where(
				"attending_doctor_id = ? AND scheduled_date = ? AND status = ? AND id <> ?",
				*req.AttendingDoctorID, *req.ScheduledDate, string(domain.StatusAuthorized), req.ID,
			)

		if req.SpecialtyID != nil {
			bucketQ = bucketQ.Where("specialty_id = ?", *req.SpecialtyID)
			countQ = countQ.Where("specialty_id = ?", *req.SpecialtyID)
		} else {
			bucketQ = bucketQ.Where("exam_type_id = ?", *req.ExamTypeID)
			countQ = countQ.Where("exam_type_id = ?", *req.ExamTypeID)
		}

		var bucket models.DailyCapacityBucket
		err := bucketQ.First(&bucket).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if req.Kind == string(domain.KindConsultation) {
				return httperr.ErrBusiness(httperr.CodeNoBucket)
			}
			// exame sem bucket: sem teto de capacidade

		case err != nil:
			return err

		default:
			if !bucket.Active {
				return httperr.ErrBusiness(httperr.CodeOverbook)
			}

			var reserved int64
			if err := countQ.Count(&reserved).Error; err != nil {
				return err
			}
			if reserved >= int64(bucket.Capacity) {
				return httperr.ErrBusiness(httperr.CodeOverbook)
			}
		}

		return saveTransition(tx, req, string(domain.StatusQueued))
	})
}

// --------------------------------------------------
// Pendência
// --------------------------------------------------

func (r *RegulationGormRepository) AppendPendencia(
	ctx context.Context,
	m *models.PendenciaMessage,
) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *RegulationGormRepository) ListPendencia(
	ctx context.Context,
	requestID uint,
) ([]models.PendenciaMessage, error) {

	var msgs []models.PendenciaMessage
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}

	return msgs, nil
}

// Compile-time check
var _ domain.Repository = (*RegulationGormRepository)(nil)
