package lending

import (
	"context"
	"errors"
	"time"

	lendingdomain "library-lending-go/internal/domain/lending"
	"library-lending-go/internal/repository/postgres/pgerr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(lendingdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetBook(ctx context.Context, bookID string) (*lendingdomain.BookSnapshot, error) {
	var snapshot lendingdomain.BookSnapshot
	err := r.db.WithContext(ctx).
		Table("books").
		Select("id, serial_number, title, author").
		Where("id = ?", bookID).
		Take(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || pgerr.IsInvalidInput(err) {
			return nil, lendingdomain.ErrBookNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *PostgresRepository) GetReader(ctx context.Context, readerID string) (*lendingdomain.ReaderSnapshot, error) {
	var snapshot lendingdomain.ReaderSnapshot
	err := r.db.WithContext(ctx).
		Table("readers").
		Select("id, serial_number, email, full_name").
		Where("id = ?", readerID).
		Take(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || pgerr.IsInvalidInput(err) {
			return nil, lendingdomain.ErrReaderNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *PostgresRepository) GetActiveBorrow(ctx context.Context, bookID string) (*lendingdomain.Borrow, error) {
	var borrow lendingdomain.Borrow
	err := r.db.WithContext(ctx).
		Where("book_id = ? AND return_date IS NULL", bookID).
		First(&borrow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &borrow, nil
}

func (r *PostgresRepository) GetBorrow(ctx context.Context, borrowID string) (*lendingdomain.Borrow, error) {
	var borrow lendingdomain.Borrow
	if err := r.db.WithContext(ctx).Where("id = ?", borrowID).First(&borrow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lendingdomain.ErrBorrowNotFound
		}
		return nil, err
	}
	return &borrow, nil
}

func (r *PostgresRepository) GetBorrowWithReader(ctx context.Context, borrowID string) (*lendingdomain.BorrowWithReader, error) {
	var row borrowReaderRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT bb.id, bb.book_id, bb.reader_id, bb.borrow_date, bb.due_date,
		       bb.return_date, bb.created_at, bb.updated_at,
		       r.serial_number AS reader_serial_number,
		       r.email AS reader_email,
		       r.full_name AS reader_full_name
		FROM book_borrows bb
		JOIN readers r ON r.id = bb.reader_id
		WHERE bb.id = ?
	`, borrowID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lendingdomain.ErrBorrowNotFound
		}
		return nil, err
	}

	result := row.toDomain()
	return &result, nil
}

// CreateBorrow inserts the borrow; the partial unique index on active borrows
// is the authoritative guard against a concurrent borrow of the same book.
func (r *PostgresRepository) CreateBorrow(ctx context.Context, borrow *lendingdomain.Borrow) error {
	if err := r.db.WithContext(ctx).Create(borrow).Error; err != nil {
		if pgerr.IsUniqueViolation(err, "idx_book_borrows_active") {
			return lendingdomain.ErrBookAlreadyBorrowed
		}
		if pgerr.IsForeignKeyViolation(err) {
			return lendingdomain.ErrBookNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) SetReturnDate(ctx context.Context, borrowID string, returnDate time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&lendingdomain.Borrow{}).
		Where("id = ? AND return_date IS NULL", borrowID).
		Update("return_date", returnDate)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lendingdomain.ErrBookNotBorrowed
	}
	return nil
}

func (r *PostgresRepository) ListBorrowsByBook(ctx context.Context, bookID string) ([]lendingdomain.BorrowWithReader, error) {
	var rows []borrowReaderRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT bb.id, bb.book_id, bb.reader_id, bb.borrow_date, bb.due_date,
		       bb.return_date, bb.created_at, bb.updated_at,
		       r.serial_number AS reader_serial_number,
		       r.email AS reader_email,
		       r.full_name AS reader_full_name
		FROM book_borrows bb
		JOIN readers r ON r.id = bb.reader_id
		WHERE bb.book_id = ?
		ORDER BY bb.borrow_date DESC, bb.created_at DESC
	`, bookID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	borrows := make([]lendingdomain.BorrowWithReader, 0, len(rows))
	for _, row := range rows {
		borrows = append(borrows, row.toDomain())
	}
	return borrows, nil
}

func (r *PostgresRepository) CreateReminder(ctx context.Context, reminder *lendingdomain.Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		if pgerr.IsUniqueViolation(err, "idx_reminders_borrow_type") {
			return lendingdomain.ErrReminderExists
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetReminderForUpdate(ctx context.Context, reminderID string) (*lendingdomain.Reminder, error) {
	var reminder lendingdomain.Reminder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", reminderID).
		First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || pgerr.IsInvalidInput(err) {
			return nil, lendingdomain.ErrReminderNotFound
		}
		return nil, err
	}
	return &reminder, nil
}

func (r *PostgresRepository) MarkReminderSent(ctx context.Context, reminderID string, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&lendingdomain.Reminder{}).
		Where("id = ?", reminderID).
		Update("sent_at", sentAt).Error
}

func (r *PostgresRepository) ListPendingReminders(ctx context.Context) ([]lendingdomain.Reminder, error) {
	var reminders []lendingdomain.Reminder
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("scheduled_for").
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

type borrowReaderRow struct {
	ID                 string
	BookID             string
	ReaderID           string
	BorrowDate         time.Time
	DueDate            time.Time
	ReturnDate         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ReaderSerialNumber string
	ReaderEmail        string
	ReaderFullName     string
}

func (row borrowReaderRow) toDomain() lendingdomain.BorrowWithReader {
	return lendingdomain.BorrowWithReader{
		Borrow: lendingdomain.Borrow{
			ID:         row.ID,
			BookID:     row.BookID,
			ReaderID:   row.ReaderID,
			BorrowDate: row.BorrowDate,
			DueDate:    row.DueDate,
			ReturnDate: row.ReturnDate,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		},
		Reader: lendingdomain.ReaderSnapshot{
			ID:           row.ReaderID,
			SerialNumber: row.ReaderSerialNumber,
			Email:        row.ReaderEmail,
			FullName:     row.ReaderFullName,
		},
	}
}
