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

// ======================================================
// INPUT
// ======================================================

type GenerateInput struct {
	DoctorID     uint
	SpecialtyIDs []uint

	// 0 = domingo ... 6 = sábado
	Weekdays []int

	Start         time.Time
	HorizonMonths int
	Capacity      int
	Overwrite     bool
}

type GenerateResult struct {
	Created   int `json:"created"`
	Preserved int `json:"preserved"`
}

// ======================================================
// USE CASE
// ======================================================

// GenerateFromTemplate grava o molde semanal e materializa buckets
// diários para todas as datas do horizonte cujos dias da semana batem.
// Sem overwrite a repetição é idempotente: bucket existente fica como está.
type GenerateFromTemplate struct {
	store Store
	audit *audit.Dispatcher
}

func NewGenerateFromTemplate(
	store Store,
	audit *audit.Dispatcher,
) *GenerateFromTemplate {
	return &GenerateFromTemplate{
		store: store,
		audit: audit,
	}
}

func (uc *GenerateFromTemplate) Execute(
	ctx context.Context,
	p iam.Principal,
	in GenerateInput,
) (*GenerateResult, error) {

	if !p.IsAdmin() {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}

	if err := validateGenerate(in); err != nil {
		return nil, err
	}

	if _, err := uc.store.GetDoctor(ctx, in.DoctorID); err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	for _, specID := range in.SpecialtyIDs {
		if _, err := uc.store.GetSpecialty(ctx, specID); err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
	}

	weekdaySet := map[time.Weekday]bool{}
	for _, wd := range in.Weekdays {
		weekdaySet[time.Weekday(wd)] = true
	}

	start := timezone.DateOnly(in.Start)
	end := start.AddDate(0, in.HorizonMonths, 0)

	result := &GenerateResult{}

	for _, specID := range in.SpecialtyIDs {
		specialtyID := specID

		for _, wd := range in.Weekdays {
			if err := uc.store.SaveTemplate(ctx, &models.WeeklyCapacityTemplate{
				DoctorID:    in.DoctorID,
				SpecialtyID: specialtyID,
				Weekday:     wd,
				Capacity:    in.Capacity,
				Active:      true,
			}); err != nil {
				return nil, err
			}
		}

		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			if !weekdaySet[d.Weekday()] {
				continue
			}

			created, err := uc.store.UpsertBucket(ctx, &models.DailyCapacityBucket{
				DoctorID:    in.DoctorID,
				SpecialtyID: &specialtyID,
				Date:        d,
				Capacity:    in.Capacity,
				Active:      true,
			}, in.Overwrite)
			if err != nil {
				return nil, err
			}

			if created {
				result.Created++
			} else {
				result.Preserved++
			}
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID: &p.UserID,
		Action: "capacity_template_generated",
		Entity: "capacity_template",
		Metadata: map[string]any{
			"doctor_id":  in.DoctorID,
			"created":    result.Created,
			"horizon":    in.HorizonMonths,
			"overwrite":  in.Overwrite,
			"weekdays":   in.Weekdays,
			"start_date": start.Format("2006-01-02"),
		},
	})

	return result, nil
}

func validateGenerate(in GenerateInput) error {
	if in.DoctorID == 0 || len(in.SpecialtyIDs) == 0 || len(in.Weekdays) == 0 {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	if in.Capacity <= 0 || in.HorizonMonths <= 0 || in.Start.IsZero() {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}
	for _, wd := range in.Weekdays {
		if wd < 0 || wd > 6 {
			return httperr.ErrBusiness(httperr.CodeValidation)
		}
	}
	return nil
}
