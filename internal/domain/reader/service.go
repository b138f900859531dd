package reader

import (
	"context"
	"strings"

	"library-lending-go/pkg/validation"

	"github.com/google/uuid"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 50
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*Reader, error) {
	if err := validation.SerialNumber("serial_number", input.SerialNumber); err != nil {
		return nil, err
	}
	if err := validation.EmailAddress("email", input.Email); err != nil {
		return nil, err
	}
	if err := validation.Required("full_name", input.FullName); err != nil {
		return nil, err
	}

	record := Reader{
		ID:           uuid.NewString(),
		SerialNumber: input.SerialNumber,
		Email:        strings.TrimSpace(input.Email),
		FullName:     strings.TrimSpace(input.FullName),
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Reader, error) {
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
	if input.Email != nil {
		if err := validation.EmailAddress("email", *input.Email); err != nil {
			return nil, err
		}
		record.Email = strings.TrimSpace(*input.Email)
		changed = true
	}
	if input.FullName != nil {
		if err := validation.Required("full_name", *input.FullName); err != nil {
			return nil, err
		}
		record.FullName = strings.TrimSpace(*input.FullName)
		changed = true
	}

	if !changed {
		return record, nil
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Service) Deregister(ctx context.Context, readerID string) error {
	deleted, err := s.repo.Delete(ctx, readerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrReaderNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, readerID string) (*Reader, error) {
	return s.repo.GetByID(ctx, readerID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Reader, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = DefaultPerPage
	}
	if filter.PerPage > MaxPerPage {
		filter.PerPage = MaxPerPage
	}
	return s.repo.List(ctx, filter)
}
