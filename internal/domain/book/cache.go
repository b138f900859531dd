package book

import (
	"context"
	"time"
)

// ListCache holds rendered catalog pages. Book mutations and borrow/return
// both invalidate it since borrow state feeds the status column.
type ListCache interface {
	GetList(ctx context.Context, key string) ([]BookWithStatus, int64, bool)
	SetList(ctx context.Context, key string, books []BookWithStatus, total int64, ttl time.Duration)
	Invalidate(ctx context.Context)
}

type noopListCache struct{}

func (noopListCache) GetList(context.Context, string) ([]BookWithStatus, int64, bool) {
	return nil, 0, false
}

func (noopListCache) SetList(context.Context, string, []BookWithStatus, int64, time.Duration) {}

func (noopListCache) Invalidate(context.Context) {}
