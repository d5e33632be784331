package postgres

import (
	"context"
	"errors"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, wrap("find admin", err)
	}
	return &admin, nil
}

// SaveByUsername creates the admin or replaces the password hash of the
// existing one.
func (r *AdminRepository) SaveByUsername(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AdminUser
		err := tx.Where("username = ?", admin.Username).First(&existing).Error
		switch {
		case err == nil:
			admin.ID = existing.ID
			admin.CreatedAt = existing.CreatedAt
			return wrap("update admin", tx.Model(&existing).Update("password_hash", admin.PasswordHash).Error)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return wrap("create admin", tx.Create(admin).Error)
		default:
			return wrap("find admin", err)
		}
	})
}
