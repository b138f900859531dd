package book

import "context"

type Repository interface {
	Create(ctx context.Context, book *Book) error
	Update(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, bookID string) (*Book, error)
	GetDetails(ctx context.Context, bookID string) (*BookDetails, error)
	Delete(ctx context.Context, bookID string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]BookWithStatus, int64, error)
}
