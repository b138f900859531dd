package reader

import "time"

type Reader struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	SerialNumber string    `gorm:"not null"`
	Email        string    `gorm:"not null"`
	FullName     string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type ListFilter struct {
	Page    int
	PerPage int
}

type RegisterInput struct {
	SerialNumber string
	Email        string
	FullName     string
}

type UpdateInput struct {
	ID           string
	SerialNumber *string
	Email        *string
	FullName     *string
}
