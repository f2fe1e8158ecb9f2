package models

// User carries login credentials. Role and billing state live on Profile,
// which shares the user's id.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Relations
	Profile *Profile `gorm:"foreignKey:ID;references:ID"`
}
