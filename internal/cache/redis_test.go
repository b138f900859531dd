package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	bookdomain "library-lending-go/internal/domain/book"
	"library-lending-go/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *BookListCache {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewBookListCache(client, logger.New(io.Discard, slog.LevelError, "text"))
}

func sampleBooks(title string) []bookdomain.BookWithStatus {
	return []bookdomain.BookWithStatus{{
		Book:   bookdomain.Book{ID: "b1", SerialNumber: "123456", Title: title, Author: "A"},
		Status: bookdomain.StatusAvailable,
	}}
}

func TestBookListCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if _, _, ok := cache.GetList(ctx, "page=1"); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.SetList(ctx, "page=1", sampleBooks("Dune"), 1, time.Minute)

	books, total, ok := cache.GetList(ctx, "page=1")
	if !ok {
		t.Fatal("expected hit after SetList")
	}
	if total != 1 || len(books) != 1 || books[0].Title != "Dune" {
		t.Errorf("cached page = %+v total %d", books, total)
	}
}

func TestBookListCacheInvalidateHidesEntries(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.GetList(ctx, "page=1")
	cache.SetList(ctx, "page=1", sampleBooks("Dune"), 1, time.Minute)

	cache.Invalidate(ctx)

	if _, _, ok := cache.GetList(ctx, "page=1"); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestBookListCacheWriteRacingInvalidationStaysStale(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	// The repository read happens between GetList and SetList; an
	// invalidation in that window must not let the write land in the fresh
	// version's keyspace.
	if _, _, ok := cache.GetList(ctx, "page=1"); ok {
		t.Fatal("expected miss")
	}
	cache.Invalidate(ctx)
	cache.SetList(ctx, "page=1", sampleBooks("Pre-invalidation page"), 1, time.Minute)

	if _, _, ok := cache.GetList(ctx, "page=1"); ok {
		t.Fatal("pre-invalidation page served as fresh")
	}

	// The next full read/write cycle repopulates normally.
	cache.SetList(ctx, "page=1", sampleBooks("Fresh page"), 1, time.Minute)
	books, _, ok := cache.GetList(ctx, "page=1")
	if !ok || books[0].Title != "Fresh page" {
		t.Fatalf("expected fresh page, got ok=%v books=%+v", ok, books)
	}
}
