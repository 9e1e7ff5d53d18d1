package model

import "time"

// Student is an owned record. CreatedBy is set once at creation and never
// reassigned; every query against students carries a CreatedBy predicate.
type Student struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;index"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Age       int       `json:"age" gorm:"not null"`
	Course    string    `json:"course" gorm:"size:100;not null;index"`
	City      string    `json:"city" gorm:"size:100;not null;index"`
	CreatedBy uint      `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
