package notify

import (
	"gorm.io/gorm"

	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/models"
)

// Store resolve destinatários e grava as notificações.
type Store interface {
	UBSUserIDs(ubsID uint) ([]uint, error)
	RegulatorIDs() ([]uint, error)
	Insert(n *models.Notification) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) UBSUserIDs(ubsID uint) ([]uint, error) {
	var ids []uint
	err := s.db.
		Model(&models.User{}).
		Where("ubs_id = ?", ubsID).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *GormStore) RegulatorIDs() ([]uint, error) {
	var ids []uint
	err := s.db.
		Model(&models.User{}).
		Where("role = ?", string(iam.RoleRegulator)).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *GormStore) Insert(n *models.Notification) error {
	return s.db.Create(n).Error
}

var _ Store = (*GormStore)(nil)
