package models

import "time"

// Document is one whole persisted JSON document (users.json, projects.json,
// admin.json) stored as a single row by the SQL backend.
type Document struct {
	Name      string    `gorm:"primarykey;type:varchar(191)" json:"name"`
	Body      []byte    `gorm:"not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}
