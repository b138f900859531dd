package book

import (
	"context"
	"fmt"
	"strings"
	"time"

	"library-lending-go/pkg/validation"

	"github.com/google/uuid"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 50
)

type Service struct {
	repo     Repository
	cache    ListCache
	cacheTTL time.Duration
}

func NewService(repo Repository, cache ListCache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = noopListCache{}
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*Book, error) {
	if err := validation.SerialNumber("serial_number", input.SerialNumber); err != nil {
		return nil, err
	}
	if err := validation.Required("title", input.Title); err != nil {
		return nil, err
	}
	if err := validation.Required("author", input.Author); err != nil {
		return nil, err
	}

	record := Book{
		ID:           uuid.NewString(),
		SerialNumber: input.SerialNumber,
		Title:        strings.TrimSpace(input.Title),
		Author:       strings.TrimSpace(input.Author),
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return &record, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Book, error) {
	record, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.SerialNumber != nil {
		if err := validation.SerialNumber("serial_number", *input.SerialNumber); err != nil {
			return nil, err
		}
		record.SerialNumber = *input.SerialNumber
		changed = true
	}
	if input.Title != nil {
		if err := validation.Required("title", *input.Title); err != nil {
			return nil, err
		}
		record.Title = strings.TrimSpace(*input.Title)
		changed = true
	}
	if input.Author != nil {
		if err := validation.Required("author", *input.Author); err != nil {
			return nil, err
		}
		record.Author = strings.TrimSpace(*input.Author)
		changed = true
	}

	if !changed {
		return record, nil
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return record, nil
}

func (s *Service) Deregister(ctx context.Context, bookID string) error {
	deleted, err := s.repo.Delete(ctx, bookID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBookNotFound
	}

	s.cache.Invalidate(ctx)
	return nil
}

func (s *Service) Get(ctx context.Context, bookID string) (*BookDetails, error) {
	return s.repo.GetDetails(ctx, bookID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]BookWithStatus, int64, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status != "" && status != StatusBorrowed && status != StatusAvailable {
		return nil, 0, validation.Errorf("status", "must be one of: %s, %s", StatusBorrowed, StatusAvailable)
	}
	filter.Status = status
	filter.Page, filter.PerPage = normalizePagination(filter.Page, filter.PerPage)

	key := listCacheKey(filter)
	if books, total, ok := s.cache.GetList(ctx, key); ok {
		return books, total, nil
	}

	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	s.cache.SetList(ctx, key, books, total, s.cacheTTL)
	return books, total, nil
}

func normalizePagination(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func listCacheKey(filter ListFilter) string {
	return fmt.Sprintf("status=%s&page=%d&per_page=%d", filter.Status, filter.Page, filter.PerPage)
}
