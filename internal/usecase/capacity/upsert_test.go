package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/models"
)

func TestUpsertBucket_ForSpecialty(t *testing.T) {
	store := &MockStore{}
	uc := NewUpsertBucket(store, noopAudit())

	store.On("GetDoctor", uint(7)).Return(&models.Doctor{ID: 7}, nil)
	store.On("GetSpecialty", uint(4)).Return(&models.Specialty{ID: 4}, nil)
	store.On("UpsertBucket", mock.AnythingOfType("*models.DailyCapacityBucket"), true).Return(true, nil)

	bucket, err := uc.Execute(context.Background(), admin(), UpsertBucketInput{
		DoctorID:    7,
		SpecialtyID: uintPtr(4),
		Date:        time.Date(2025, 2, 10, 18, 0, 0, 0, time.Local),
		Capacity:    12,
		Active:      true,
	})
	assert.NoError(t, err)

	assert.Equal(t, uint(4), *bucket.SpecialtyID)
	assert.Nil(t, bucket.ExamTypeID)
	assert.Equal(t, 12, bucket.Capacity)

	// data normalizada para a coluna DATE
	assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), bucket.Date)
}

func TestUpsertBucket_ForExamType(t *testing.T) {
	store := &MockStore{}
	uc := NewUpsertBucket(store, noopAudit())

	store.On("GetDoctor", uint(7)).Return(&models.Doctor{ID: 7}, nil)
	store.On("GetExamType", uint(21)).Return(&models.ExamType{ID: 21}, nil)
	store.On("UpsertBucket", mock.AnythingOfType("*models.DailyCapacityBucket"), true).Return(true, nil)

	bucket, err := uc.Execute(context.Background(), admin(), UpsertBucketInput{
		DoctorID:   7,
		ExamTypeID: uintPtr(21),
		Date:       time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		Capacity:   6,
		Active:     true,
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(21), *bucket.ExamTypeID)
	assert.Nil(t, bucket.SpecialtyID)
}

func TestUpsertBucket_ExactlyOneTarget(t *testing.T) {
	store := &MockStore{}
	uc := NewUpsertBucket(store, noopAudit())

	base := UpsertBucketInput{
		DoctorID: 7,
		Date:     time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		Capacity: 6,
		Active:   true,
	}

	// nenhum dos dois
	_, err := uc.Execute(context.Background(), admin(), base)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))

	// os dois ao mesmo tempo
	both := base
	both.SpecialtyID = uintPtr(4)
	both.ExamTypeID = uintPtr(21)
	_, err = uc.Execute(context.Background(), admin(), both)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
}

func TestUpsertBucket_AdminOnly(t *testing.T) {
	store := &MockStore{}
	uc := NewUpsertBucket(store, noopAudit())

	_, err := uc.Execute(context.Background(), regulator(), UpsertBucketInput{
		DoctorID:    7,
		SpecialtyID: uintPtr(4),
		Date:        time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		Capacity:    6,
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAccessDenied))
	store.AssertNotCalled(t, "UpsertBucket", mock.Anything, mock.Anything)
}
