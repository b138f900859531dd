package lending

import (
	"context"
	"time"
)

// Repository is the persistence contract for the borrow/return lifecycle and
// reminder dispatch. Implementations must translate storage-level constraint
// violations into the package sentinels: a unique violation on the active
// borrow index becomes ErrBookAlreadyBorrowed, one on (borrow, type) becomes
// ErrReminderExists. That translation is what lets the service treat the
// database constraint as the final arbiter under concurrent borrows.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetBook(ctx context.Context, bookID string) (*BookSnapshot, error)
	GetReader(ctx context.Context, readerID string) (*ReaderSnapshot, error)

	// GetActiveBorrow returns (nil, nil) when the book has no active borrow.
	GetActiveBorrow(ctx context.Context, bookID string) (*Borrow, error)
	GetBorrow(ctx context.Context, borrowID string) (*Borrow, error)
	GetBorrowWithReader(ctx context.Context, borrowID string) (*BorrowWithReader, error)
	CreateBorrow(ctx context.Context, borrow *Borrow) error
	// SetReturnDate closes the borrow; returns ErrBookNotBorrowed when the
	// row was already returned by a concurrent caller.
	SetReturnDate(ctx context.Context, borrowID string, returnDate time.Time) error
	ListBorrowsByBook(ctx context.Context, bookID string) ([]BorrowWithReader, error)

	CreateReminder(ctx context.Context, reminder *Reminder) error
	// GetReminderForUpdate locks the reminder row for the remainder of the
	// surrounding transaction, serializing duplicate dispatches and racing
	// returns.
	GetReminderForUpdate(ctx context.Context, reminderID string) (*Reminder, error)
	MarkReminderSent(ctx context.Context, reminderID string, sentAt time.Time) error
	ListPendingReminders(ctx context.Context) ([]Reminder, error)
}
