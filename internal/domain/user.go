package domain

// User Model
type User struct {
	Name    string  `gorm:"primaryKey;size:64" json:"username"`           // Unique lowercase username
	IsAdmin bool    `gorm:"not null;default:false" json:"-"`              // Admin flag
	Account Account `gorm:"foreignKey:Username;references:Name" json:"-"` // One-to-one relationship with Account
}
