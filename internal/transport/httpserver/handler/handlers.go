package handler

import (
	bookdomain "library-lending-go/internal/domain/book"
	lendingdomain "library-lending-go/internal/domain/lending"
	readerdomain "library-lending-go/internal/domain/reader"
	"library-lending-go/pkg/logger"

	"gorm.io/gorm"
)

type Handlers struct {
	Books   *bookdomain.Service
	Readers *readerdomain.Service
	Lending *lendingdomain.Service
	db      *gorm.DB
	log     logger.Logger
}

func New(books *bookdomain.Service, readers *readerdomain.Service, lending *lendingdomain.Service, db *gorm.DB, log logger.Logger) *Handlers {
	return &Handlers{
		Books:   books,
		Readers: readers,
		Lending: lending,
		db:      db,
		log:     log,
	}
}
