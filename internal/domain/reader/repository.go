package reader

import "context"

type Repository interface {
	Create(ctx context.Context, reader *Reader) error
	Update(ctx context.Context, reader *Reader) error
	GetByID(ctx context.Context, readerID string) (*Reader, error)
	Delete(ctx context.Context, readerID string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]Reader, int64, error)
}
