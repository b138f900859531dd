package lending

import (
	"context"
	"fmt"
	"time"

	"library-lending-go/pkg/validation"

	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	queue  Queue
	sender Sender
	cache  CatalogCache
	now    func() time.Time
}

func NewService(repo Repository, queue Queue, sender Sender, cache CatalogCache) *Service {
	if cache == nil {
		cache = noopCatalogCache{}
	}
	return &Service{
		repo:   repo,
		queue:  queue,
		sender: sender,
		cache:  cache,
		now:    time.Now,
	}
}

// BorrowBook creates a borrow for an available book and schedules both due
// date reminders. The whole sequence runs in one transaction: the partial
// unique index on active borrows decides concurrent attempts, and a failed
// reminder write or schedule rolls the borrow back.
func (s *Service) BorrowBook(ctx context.Context, input BorrowInput) (*BorrowWithReader, error) {
	if err := validation.Required("book_id", input.BookID); err != nil {
		return nil, err
	}
	if err := validation.Required("reader_id", input.ReaderID); err != nil {
		return nil, err
	}

	var borrowID string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		book, err := tx.GetBook(ctx, input.BookID)
		if err != nil {
			return err
		}
		reader, err := tx.GetReader(ctx, input.ReaderID)
		if err != nil {
			return err
		}

		active, err := tx.GetActiveBorrow(ctx, book.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrBookAlreadyBorrowed
		}

		today := startOfDay(s.now().UTC())
		borrow := &Borrow{
			ID:         uuid.NewString(),
			BookID:     book.ID,
			ReaderID:   reader.ID,
			BorrowDate: today,
			DueDate:    today.AddDate(0, 0, LoanPeriodDays),
		}
		if err := tx.CreateBorrow(ctx, borrow); err != nil {
			return err
		}

		if err := s.scheduleReminders(ctx, tx, borrow); err != nil {
			return err
		}

		borrowID = borrow.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return s.repo.GetBorrowWithReader(ctx, borrowID)
}

// ReturnBook closes the active borrow, making the book available again.
func (s *Service) ReturnBook(ctx context.Context, bookID string) (*BorrowWithReader, error) {
	if err := validation.Required("book_id", bookID); err != nil {
		return nil, err
	}

	var borrowID string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		book, err := tx.GetBook(ctx, bookID)
		if err != nil {
			return err
		}

		active, err := tx.GetActiveBorrow(ctx, book.ID)
		if err != nil {
			return err
		}
		if active == nil {
			return ErrBookNotBorrowed
		}

		if err := tx.SetReturnDate(ctx, active.ID, startOfDay(s.now().UTC())); err != nil {
			return err
		}

		borrowID = active.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return s.repo.GetBorrowWithReader(ctx, borrowID)
}

func (s *Service) ListBorrowsByBook(ctx context.Context, bookID string) ([]BorrowWithReader, error) {
	if err := validation.Required("book_id", bookID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.ListBorrowsByBook(ctx, bookID)
}

func (s *Service) scheduleReminders(ctx context.Context, tx Repository, borrow *Borrow) error {
	plan := []struct {
		reminderType ReminderType
		scheduledFor time.Time
	}{
		{ReminderThreeDaysWarning, borrow.DueDate.AddDate(0, 0, -WarningLeadDays)},
		{ReminderDueDateAlert, borrow.DueDate},
	}

	for _, entry := range plan {
		reminder := &Reminder{
			ID:           uuid.NewString(),
			BorrowID:     borrow.ID,
			Type:         entry.reminderType,
			ScheduledFor: entry.scheduledFor,
		}
		if err := tx.CreateReminder(ctx, reminder); err != nil {
			return err
		}
		if err := s.queue.Schedule(ctx, reminder.ID, entry.reminderType, startOfDay(entry.scheduledFor)); err != nil {
			return fmt.Errorf("schedule %s reminder: %w", entry.reminderType, err)
		}
	}

	return nil
}

// DispatchReminder is the queue entry point. It is safe to call more than
// once and concurrently with ReturnBook: the row lock taken by
// GetReminderForUpdate serializes racing dispatches, and the sent_at /
// return_date re-checks make duplicates and late firings no-ops.
func (s *Service) DispatchReminder(ctx context.Context, reminderID string) error {
	if err := validation.Required("reminder_id", reminderID); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		reminder, err := tx.GetReminderForUpdate(ctx, reminderID)
		if err != nil {
			return err
		}
		if reminder.SentAt != nil {
			return nil
		}

		borrow, err := tx.GetBorrow(ctx, reminder.BorrowID)
		if err != nil {
			return err
		}
		if !borrow.Active() {
			// Returned before the reminder fired; suppress silently and
			// leave sent_at empty.
			return nil
		}

		book, err := tx.GetBook(ctx, borrow.BookID)
		if err != nil {
			return err
		}
		reader, err := tx.GetReader(ctx, borrow.ReaderID)
		if err != nil {
			return err
		}

		message := renderReminder(reminder.Type, book, reader, borrow.DueDate)
		if err := s.sender.Send(ctx, reader.Email, message.Subject, message.Body); err != nil {
			// Abort without marking sent so the queue can retry delivery.
			return fmt.Errorf("send reminder notification: %w", err)
		}

		return tx.MarkReminderSent(ctx, reminder.ID, s.now().UTC())
	})
}

// ReschedulePending re-enqueues every unsent reminder. Called at startup so
// reminders survive restarts of the in-process scheduler and fire times
// missed while the service was down are delivered promptly.
func (s *Service) ReschedulePending(ctx context.Context) (int, error) {
	pending, err := s.repo.ListPendingReminders(ctx)
	if err != nil {
		return 0, err
	}

	for i, reminder := range pending {
		if err := s.queue.Schedule(ctx, reminder.ID, reminder.Type, startOfDay(reminder.ScheduledFor)); err != nil {
			return i, fmt.Errorf("reschedule reminder %s: %w", reminder.ID, err)
		}
	}

	return len(pending), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
