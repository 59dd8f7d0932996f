package capacity

import (
	"context"
	"time"

	"github.com/prefsaude/regulacao-api/internal/audit"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/models"
	"github.com/prefsaude/regulacao-api/internal/timezone"
)

type UpsertBucketInput struct {
	DoctorID uint

	// exatamente um dos dois
	SpecialtyID *uint
	ExamTypeID  *uint

	Date     time.Time
	Capacity int
	Active   bool
}

// UpsertBucket cria ou ajusta um bucket avulso (admin), fora do molde
// semanal. Ajuste manual sempre sobrescreve.
type UpsertBucket struct {
	store Store
	audit *audit.Dispatcher
}

func NewUpsertBucket(
	store Store,
	audit *audit.Dispatcher,
) *UpsertBucket {
	return &UpsertBucket{
		store: store,
		audit: audit,
	}
}

func (uc *UpsertBucket) Execute(
	ctx context.Context,
	p iam.Principal,
	in UpsertBucketInput,
) (*models.DailyCapacityBucket, error) {

	if !p.IsAdmin() {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	if in.DoctorID == 0 || in.Capacity <= 0 || in.Date.IsZero() {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}
	if (in.SpecialtyID == nil) == (in.ExamTypeID == nil) {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	if _, err := uc.store.GetDoctor(ctx, in.DoctorID); err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if in.SpecialtyID != nil {
		if _, err := uc.store.GetSpecialty(ctx, *in.SpecialtyID); err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
	} else {
		if _, err := uc.store.GetExamType(ctx, *in.ExamTypeID); err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
	}

	bucket := models.DailyCapacityBucket{
		DoctorID:    in.DoctorID,
		SpecialtyID: in.SpecialtyID,
		ExamTypeID:  in.ExamTypeID,
		Date:        timezone.DateOnly(in.Date),
		Capacity:    in.Capacity,
		Active:      in.Active,
	}

	if _, err := uc.store.UpsertBucket(ctx, &bucket, true); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "capacity_bucket_upserted",
		Entity:   "capacity_bucket",
		EntityID: &bucket.ID,
	})

	return &bucket, nil
}
