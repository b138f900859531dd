package book

import "time"

const (
	StatusAvailable = "available"
	StatusBorrowed  = "borrowed"
)

type Book struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	SerialNumber string    `gorm:"not null"`
	Title        string    `gorm:"not null"`
	Author       string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type BookWithStatus struct {
	Book   `gorm:"embedded"`
	Status string
}

// BorrowSummary is a flattened borrow row for the book detail view, reader
// fields included so the catalog does not depend on the lending package.
type BorrowSummary struct {
	ReaderCardNumber string
	ReaderEmail      string
	BorrowDate       time.Time
	DueDate          time.Time
	ReturnDate       *time.Time
}

type BookDetails struct {
	Book
	Status  string
	Borrows []BorrowSummary
}

type ListFilter struct {
	Status  string
	Page    int
	PerPage int
}

type RegisterInput struct {
	SerialNumber string
	Title        string
	Author       string
}

type UpdateInput struct {
	ID           string
	SerialNumber *string
	Title        *string
	Author       *string
}
