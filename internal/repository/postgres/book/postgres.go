package book

import (
	"context"
	"errors"
	"time"

	bookdomain "library-lending-go/internal/domain/book"
	"library-lending-go/internal/repository/postgres/pgerr"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, book *bookdomain.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		if pgerr.IsUniqueViolation(err, "idx_books_serial_number") {
			return bookdomain.ErrSerialNumberTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, book *bookdomain.Book) error {
	err := r.db.WithContext(ctx).
		Model(&bookdomain.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]interface{}{
			"serial_number": book.SerialNumber,
			"title":         book.Title,
			"author":        book.Author,
		}).Error
	if err != nil {
		if pgerr.IsUniqueViolation(err, "idx_books_serial_number") {
			return bookdomain.ErrSerialNumberTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, bookID string) (*bookdomain.Book, error) {
	var book bookdomain.Book
	if err := r.db.WithContext(ctx).Where("id = ?", bookID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || pgerr.IsInvalidInput(err) {
			return nil, bookdomain.ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (r *PostgresRepository) GetDetails(ctx context.Context, bookID string) (*bookdomain.BookDetails, error) {
	book, err := r.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	var rows []borrowRow
	err = r.db.WithContext(ctx).Raw(`
		SELECT r.serial_number AS reader_card_number,
		       r.email AS reader_email,
		       bb.borrow_date, bb.due_date, bb.return_date
		FROM book_borrows bb
		JOIN readers r ON r.id = bb.reader_id
		WHERE bb.book_id = ?
		ORDER BY bb.borrow_date DESC, bb.created_at DESC
	`, bookID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	details := bookdomain.BookDetails{
		Book:    *book,
		Status:  bookdomain.StatusAvailable,
		Borrows: make([]bookdomain.BorrowSummary, 0, len(rows)),
	}
	for _, row := range rows {
		if row.ReturnDate == nil {
			details.Status = bookdomain.StatusBorrowed
		}
		details.Borrows = append(details.Borrows, bookdomain.BorrowSummary(row))
	}

	return &details, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, bookID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&bookdomain.Book{}, "id = ?", bookID)
	if pgerr.IsInvalidInput(result.Error) {
		return false, nil
	}
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) List(ctx context.Context, filter bookdomain.ListFilter) ([]bookdomain.BookWithStatus, int64, error) {
	query := r.db.WithContext(ctx).
		Table("books").
		Joins("LEFT JOIN book_borrows ON book_borrows.book_id = books.id AND book_borrows.return_date IS NULL")

	switch filter.Status {
	case bookdomain.StatusBorrowed:
		query = query.Where("book_borrows.id IS NOT NULL")
	case bookdomain.StatusAvailable:
		query = query.Where("book_borrows.id IS NULL")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	var books []bookdomain.BookWithStatus
	err := query.
		Select("books.*, CASE WHEN book_borrows.id IS NOT NULL THEN 'borrowed' ELSE 'available' END AS status").
		Order("books.created_at").
		Offset(offset).
		Limit(filter.PerPage).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

type borrowRow struct {
	ReaderCardNumber string
	ReaderEmail      string
	BorrowDate       time.Time
	DueDate          time.Time
	ReturnDate       *time.Time
}
