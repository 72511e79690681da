package profile

import "time"

type Profile struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	// Email is nullable: synced profiles have no email, and NULLs do not
	// collide in the unique index the way empty strings would.
	Email            *string   `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Username         string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	FullName         string    `gorm:"type:varchar(128)" json:"full_name"`
	PasswordHash     string    `gorm:"type:varchar(128)" json:"-"`
	HasEcmoAvailable bool      `gorm:"not null;default:false" json:"has_ecmo_available"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
