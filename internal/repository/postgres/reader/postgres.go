package reader

import (
	"context"
	"errors"

	readerdomain "library-lending-go/internal/domain/reader"
	"library-lending-go/internal/repository/postgres/pgerr"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, reader *readerdomain.Reader) error {
	return translateUnique(r.db.WithContext(ctx).Create(reader).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, reader *readerdomain.Reader) error {
	err := r.db.WithContext(ctx).
		Model(&readerdomain.Reader{}).
		Where("id = ?", reader.ID).
		Updates(map[string]interface{}{
			"serial_number": reader.SerialNumber,
			"email":         reader.Email,
			"full_name":     reader.FullName,
		}).Error
	return translateUnique(err)
}

func (r *PostgresRepository) GetByID(ctx context.Context, readerID string) (*readerdomain.Reader, error) {
	var reader readerdomain.Reader
	if err := r.db.WithContext(ctx).Where("id = ?", readerID).First(&reader).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || pgerr.IsInvalidInput(err) {
			return nil, readerdomain.ErrReaderNotFound
		}
		return nil, err
	}
	return &reader, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, readerID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&readerdomain.Reader{}, "id = ?", readerID)
	if pgerr.IsInvalidInput(result.Error) {
		return false, nil
	}
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) List(ctx context.Context, filter readerdomain.ListFilter) ([]readerdomain.Reader, int64, error) {
	query := r.db.WithContext(ctx).Model(&readerdomain.Reader{})

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	var readers []readerdomain.Reader
	err := query.Order("created_at").Offset(offset).Limit(filter.PerPage).Find(&readers).Error
	if err != nil {
		return nil, 0, err
	}

	return readers, total, nil
}

func translateUnique(err error) error {
	switch {
	case err == nil:
		return nil
	case pgerr.IsUniqueViolation(err, "idx_readers_email"):
		return readerdomain.ErrEmailTaken
	case pgerr.IsUniqueViolation(err, "idx_readers_serial_number"):
		return readerdomain.ErrSerialNumberTaken
	default:
		return err
	}
}
