package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

// GormAddressDAO implements AddressDAO.
type GormAddressDAO struct {
	db *gorm.DB
}

func NewAddressDAO(db *gorm.DB) *GormAddressDAO {
	return &GormAddressDAO{db: db}
}

func (d *GormAddressDAO) q(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Model(&models.Address{})
}

// Insert upserts a. A user's first address becomes the default, and an
// address inserted as default takes the flag from the others.
func (d *GormAddressDAO) Insert(ctx context.Context, a *models.Address) error {
	return database.Transaction(d.db.WithContext(ctx), func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&models.Address{}).Where("user_id = ? AND id <> ?", a.UserID, a.ID).Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			a.IsDefault = true
		}
		if err := upsert(tx, a); err != nil {
			return err
		}
		if a.IsDefault && n > 0 {
			return setDefault(tx, a.UserID, a.ID)
		}
		return nil
	})
}

func (d *GormAddressDAO) Update(ctx context.Context, a *models.Address) error {
	return database.Transaction(d.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := updateRow(tx, a); err != nil {
			return err
		}
		if a.IsDefault {
			return setDefault(tx, a.UserID, a.ID)
		}
		return nil
	})
}

func (d *GormAddressDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&models.Address{}, id).Error
}

func (d *GormAddressDAO) Get(ctx context.Context, id uint) (models.Address, error) {
	var a models.Address
	err := d.q(ctx).Where("id = ?", id).First(&a).Error
	return a, notFound(err)
}

// ForUser lists the user's addresses, default first.
func (d *GormAddressDAO) ForUser(ctx context.Context, userID uint) ([]models.Address, error) {
	var as []models.Address
	err := d.q(ctx).Where("user_id = ?", userID).Order("is_default DESC").Order("id").Find(&as).Error
	return as, err
}

func (d *GormAddressDAO) Default(ctx context.Context, userID uint) (models.Address, error) {
	var a models.Address
	err := d.q(ctx).Where("user_id = ? AND is_default = ?", userID, true).First(&a).Error
	return a, notFound(err)
}

// SetDefault makes addressID the only default address of userID. The flag
// flip is a single UPDATE, so readers never see two defaults or none.
func (d *GormAddressDAO) SetDefault(ctx context.Context, userID, addressID uint) error {
	return database.Transaction(d.db.WithContext(ctx), func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&models.Address{}).Where("id = ? AND user_id = ?", addressID, userID).Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return setDefault(tx, userID, addressID)
	})
}

func (d *GormAddressDAO) DeleteAllForUser(ctx context.Context, userID uint) error {
	return d.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Address{}).Error
}

func (d *GormAddressDAO) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := d.q(ctx).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func setDefault(tx *gorm.DB, userID, addressID uint) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ?", userID).
		Update("is_default", gorm.Expr("CASE WHEN id = ? THEN ? ELSE ? END", addressID, true, false)).
		Error
}
