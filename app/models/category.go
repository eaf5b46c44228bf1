package models

// Category is a node in the catalogue hierarchy. A nil ParentCategoryID
// marks a top-level category.
type Category struct {
	ID               string  `gorm:"primaryKey;size:64"          json:"id"`
	Name             string  `gorm:"size:255;not null"           json:"name"`
	Description      string  `gorm:"type:text"                   json:"description"`
	IconURL          string  `gorm:"size:512"                    json:"icon_url"`
	DisplayOrder     int     `gorm:"not null;default:0;index"    json:"display_order"`
	IsActive         bool    `gorm:"not null;index"              json:"is_active"`
	ParentCategoryID *string `gorm:"size:64;index"               json:"parent_category_id,omitempty"`

	Parent *Category `gorm:"foreignKey:ParentCategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (Category) TableName() string { return "categories" }

// IsTopLevel reports whether the category has no parent.
func (c Category) IsTopLevel() bool { return c.ParentCategoryID == nil }

// CategoryWithProducts is a read-only projection: a category and a preview of
// its products.
type CategoryWithProducts struct {
	Category Category  `json:"category"`
	Products []Product `json:"products"`
}
