// internal/models/models.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the identity/credit record. The credit balance is authoritative here;
// processed-image records live in memory and never touch this table.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Name      string         `json:"name"`
	Credits   int            `gorm:"not null;default:0" json:"credits"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
