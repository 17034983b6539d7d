package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sekolah/app/models/registration"
	"sekolah/pkg/database"
	"sekolah/pkg/errs"
)

// RegistrationRepository reads and ratchets enrollment records. The
// wider registration CRUD belongs to another service; the payment
// flow only ever looks one up and marks it paid.
type RegistrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository builds a repository on the shared
// connection.
func NewRegistrationRepository() *RegistrationRepository {
	return &RegistrationRepository{
		db: database.DB,
	}
}

// NewRegistrationRepositoryWithDB builds a repository on an explicit
// connection.
func NewRegistrationRepositoryWithDB(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// GetByUserID resolves the registration owned by an authenticated
// user.
func (r *RegistrationRepository) GetByUserID(ctx context.Context, userID string) (*registration.Registration, error) {
	var reg registration.Registration
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("registration")
		}
		return nil, err
	}
	return &reg, nil
}

// GetByID resolves a registration by primary key.
func (r *RegistrationRepository) GetByID(ctx context.Context, id uint64) (*registration.Registration, error) {
	var reg registration.Registration
	err := r.db.WithContext(ctx).First(&reg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("registration")
		}
		return nil, err
	}
	return &reg, nil
}

// MarkPaid ratchets the registration to paid. One way: a
// registration that is already paid stays paid.
func (r *RegistrationRepository) MarkPaid(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&registration.Registration{}).
		Where("id = ? AND status <> ?", id, registration.StatusPaid).
		Update("status", registration.StatusPaid).Error
}
