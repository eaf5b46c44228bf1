package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

// GormUserDAO implements UserDAO. Email uniqueness is the store's unique
// index; a violation surfaces as ErrEmailTaken.
type GormUserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *GormUserDAO {
	return &GormUserDAO{db: db}
}

func (d *GormUserDAO) q(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Model(&models.User{})
}

// Insert stores u. A new user (zero ID) is a plain INSERT; an existing ID is
// rewritten by key, or inserted when missing. Users never go through an
// upsert, since MySQL's ON DUPLICATE KEY UPDATE also matches the email index
// and would overwrite another account.
func (d *GormUserDAO) Insert(ctx context.Context, u *models.User) error {
	db := d.db.WithContext(ctx)
	if u.ID == 0 {
		return emailTaken(db.Omit(clause.Associations).Create(u).Error)
	}
	return emailTaken(database.Transaction(db, func(tx *gorm.DB) error {
		err := updateRow(tx, u, "created_at")
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		return tx.Omit(clause.Associations).Create(u).Error
	}))
}

func (d *GormUserDAO) Update(ctx context.Context, u *models.User) error {
	return emailTaken(updateRow(d.db.WithContext(ctx), u, "created_at"))
}

func (d *GormUserDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

func (d *GormUserDAO) Get(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := d.q(ctx).Where("id = ?", id).First(&u).Error
	return u, notFound(err)
}

func (d *GormUserDAO) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := d.q(ctx).Where("email = ?", email).First(&u).Error
	return u, notFound(err)
}

// Login returns the user whose email and password hash both match, or
// ErrNotFound.
func (d *GormUserDAO) Login(ctx context.Context, email, passwordHash string) (models.User, error) {
	var u models.User
	err := d.q(ctx).Where("email = ? AND password_hash = ?", email, passwordHash).First(&u).Error
	return u, notFound(err)
}

func (d *GormUserDAO) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := d.q(ctx).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (d *GormUserDAO) UpdateProfile(ctx context.Context, id uint, name, email, phone string) error {
	res := d.q(ctx).Where("id = ?", id).Updates(map[string]interface{}{
		"name":  name,
		"email": email,
		"phone": phone,
	})
	return emailTaken(affected(res))
}

func (d *GormUserDAO) UpdateProfilePicture(ctx context.Context, id uint, path string) error {
	return affected(d.q(ctx).Where("id = ?", id).Update("profile_picture", path))
}

// UpdatePassword swaps the hash only if currentHash is the stored one. The
// comparison and the write are one statement.
func (d *GormUserDAO) UpdatePassword(ctx context.Context, id uint, currentHash, newHash string) error {
	res := d.q(ctx).Where("id = ? AND password_hash = ?", id, currentHash).Update("password_hash", newHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWrongPassword
	}
	return nil
}

func emailTaken(err error) error {
	if isDuplicate(err) {
		return ErrEmailTaken
	}
	return err
}
