package lending

import "errors"

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrReaderNotFound   = errors.New("reader not found")
	ErrBorrowNotFound   = errors.New("borrow not found")
	ErrReminderNotFound = errors.New("reminder not found")

	// Conflicts: business-rule violations, distinct from missing entities.
	ErrBookAlreadyBorrowed = errors.New("book is already borrowed")
	ErrBookNotBorrowed     = errors.New("book is not currently borrowed")
	ErrReminderExists      = errors.New("reminder already exists for this borrow and type")
)
