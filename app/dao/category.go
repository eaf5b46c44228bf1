package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

// maxCategoryDepth bounds the ancestor walk. Writes reject cycles, so a
// well-formed hierarchy never reaches it.
const maxCategoryDepth = 64

// GormCategoryDAO implements CategoryDAO.
type GormCategoryDAO struct {
	db *gorm.DB
}

func NewCategoryDAO(db *gorm.DB) *GormCategoryDAO {
	return &GormCategoryDAO{db: db}
}

func (d *GormCategoryDAO) q(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Model(&models.Category{})
}

// Insert upserts c after checking its parent link.
func (d *GormCategoryDAO) Insert(ctx context.Context, c *models.Category) error {
	return database.Transaction(d.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := checkParent(tx, c); err != nil {
			return err
		}
		return upsert(tx, c)
	})
}

// InsertAll upserts cs in order inside one transaction, so a parent listed
// earlier in cs is visible to its children.
func (d *GormCategoryDAO) InsertAll(ctx context.Context, cs []models.Category) error {
	return database.Transaction(d.db.WithContext(ctx), func(tx *gorm.DB) error {
		for i := range cs {
			if err := checkParent(tx, &cs[i]); err != nil {
				return err
			}
			if err := upsert(tx, &cs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *GormCategoryDAO) Update(ctx context.Context, c *models.Category) error {
	return database.Transaction(d.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := checkParent(tx, c); err != nil {
			return err
		}
		return updateRow(tx, c)
	})
}

// Delete removes the category; its children become top-level.
func (d *GormCategoryDAO) Delete(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

func (d *GormCategoryDAO) DeleteAll(ctx context.Context) error {
	return d.db.WithContext(ctx).Where("1 = 1").Delete(&models.Category{}).Error
}

func (d *GormCategoryDAO) Get(ctx context.Context, id string) (models.Category, error) {
	var c models.Category
	err := d.q(ctx).Where("id = ?", id).First(&c).Error
	return c, notFound(err)
}

func (d *GormCategoryDAO) All(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	err := d.q(ctx).Order("display_order").Order("id").Find(&cs).Error
	return cs, err
}

func (d *GormCategoryDAO) TopLevel(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	err := d.q(ctx).Where("parent_category_id IS NULL").Order("display_order").Find(&cs).Error
	return cs, err
}

func (d *GormCategoryDAO) Subcategories(ctx context.Context, parentID string) ([]models.Category, error) {
	var cs []models.Category
	err := d.q(ctx).Where("parent_category_id = ?", parentID).Order("display_order").Find(&cs).Error
	return cs, err
}

func (d *GormCategoryDAO) Active(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	err := d.q(ctx).Where("is_active = ?", true).Order("display_order").Find(&cs).Error
	return cs, err
}

func (d *GormCategoryDAO) ActiveTopLevel(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	err := d.q(ctx).Where("is_active = ? AND parent_category_id IS NULL", true).
		Order("display_order").
		Find(&cs).Error
	return cs, err
}

func (d *GormCategoryDAO) ActiveSubcategories(ctx context.Context, parentID string) ([]models.Category, error) {
	var cs []models.Category
	err := d.q(ctx).Where("is_active = ? AND parent_category_id = ?", true, parentID).
		Order("display_order").
		Find(&cs).Error
	return cs, err
}

// Path returns the ancestor chain of id, root first and id last. An unknown
// id yields an empty chain.
func (d *GormCategoryDAO) Path(ctx context.Context, id string) ([]models.Category, error) {
	return path(d.db.WithContext(ctx), id)
}

func (d *GormCategoryDAO) SubcategoryCount(ctx context.Context, id string) (int64, error) {
	var n int64
	err := d.q(ctx).Where("parent_category_id = ?", id).Count(&n).Error
	return n, err
}

func (d *GormCategoryDAO) UpdateDisplayOrder(ctx context.Context, id string, order int) error {
	return affected(d.q(ctx).Where("id = ?", id).Update("display_order", order))
}

func (d *GormCategoryDAO) Count(ctx context.Context) (int64, error) {
	var n int64
	err := d.q(ctx).Count(&n).Error
	return n, err
}

const pathSQL = `
WITH RECURSIVE category_path(id, parent_category_id, depth) AS (
	SELECT id, parent_category_id, 0 FROM categories WHERE id = ?
	UNION ALL
	SELECT c.id, c.parent_category_id, p.depth + 1
	FROM categories c
	JOIN category_path p ON c.id = p.parent_category_id
	WHERE p.depth < ?
)
SELECT c.* FROM categories c
JOIN category_path p ON c.id = p.id
ORDER BY p.depth DESC`

func path(tx *gorm.DB, id string) ([]models.Category, error) {
	var cs []models.Category
	err := tx.Raw(pathSQL, id, maxCategoryDepth).Scan(&cs).Error
	return cs, err
}

// checkParent rejects a parent that does not exist or whose ancestor chain
// contains c itself.
func checkParent(tx *gorm.DB, c *models.Category) error {
	if c.ParentCategoryID == nil {
		return nil
	}
	parent := *c.ParentCategoryID
	if parent == c.ID {
		return ErrCategoryCycle
	}

	var p models.Category
	err := tx.Model(&models.Category{}).Select("id").Where("id = ?", parent).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrParentNotFound
	}
	if err != nil {
		return err
	}

	chain, err := path(tx, parent)
	if err != nil {
		return err
	}
	for _, anc := range chain {
		if anc.ID == c.ID {
			return ErrCategoryCycle
		}
	}
	return nil
}
