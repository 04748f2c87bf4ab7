package models

import "time"

// User is a registered customer. Delivery profile fields are optional and only
// prefill checkout; orders keep their own snapshot.
type User struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Email           string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name            string  `gorm:"size:255;not null" json:"name"`
	PasswordHash    string  `gorm:"size:255;not null" json:"-"`
	RefreshToken    *string `gorm:"size:500" json:"-"`
	DeliveryProfile `gorm:"embedded"`
	IsFirstPurchase bool      `gorm:"not null;default:true" json:"isFirstPurchase"`
	IsAdmin         bool      `gorm:"not null;default:false" json:"isAdmin"`
	Orders          []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DeliveryProfile is embedded in User.
type DeliveryProfile struct {
	FullName      string `gorm:"size:255" json:"fullName,omitempty"`
	Phone         string `gorm:"size:50" json:"phone,omitempty"`
	StreetAddress string `gorm:"size:255" json:"streetAddress,omitempty"`
	City          string `gorm:"size:100" json:"city,omitempty"`
	PostalCode    string `gorm:"size:20" json:"postalCode,omitempty"`
	Country       string `gorm:"size:100" json:"country,omitempty"`
}
