package models

import "time"

// User is a registered shopper.
type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	Name           string    `gorm:"size:255;not null"               json:"name"`
	Email          string    `gorm:"uniqueIndex;size:255;not null"   json:"email"`
	Phone          string    `gorm:"size:50"                         json:"phone"`
	ProfilePicture string    `gorm:"size:512"                        json:"profile_picture,omitempty"`
	PasswordHash   string    `gorm:"size:128;not null"               json:"-"` // hashed, never serialised
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Address is a shipping address owned by a user. At most one address per
// user is the default.
type Address struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"     json:"id"`
	UserID     uint   `gorm:"not null;index"               json:"user_id"`
	Street     string `gorm:"size:255;not null"            json:"street"`
	City       string `gorm:"size:128;not null"            json:"city"`
	State      string `gorm:"size:64"                      json:"state"`
	PostalCode string `gorm:"size:16;not null"             json:"postal_code"`
	IsDefault  bool   `gorm:"not null;default:false"       json:"is_default"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Address) TableName() string { return "addresses" }
