package lending

import "time"

// LoanPeriodDays is the fixed loan period: due date = borrow date + 30 days.
const LoanPeriodDays = 30

// WarningLeadDays is how far before the due date the warning reminder fires.
const WarningLeadDays = 3

type ReminderType string

const (
	ReminderThreeDaysWarning ReminderType = "3_days_warning"
	ReminderDueDateAlert     ReminderType = "due_date_alert"
)

type Borrow struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	BookID     string     `gorm:"type:uuid;not null"`
	ReaderID   string     `gorm:"type:uuid;not null"`
	BorrowDate time.Time  `gorm:"type:date;not null"`
	DueDate    time.Time  `gorm:"type:date;not null"`
	ReturnDate *time.Time `gorm:"type:date"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

func (Borrow) TableName() string { return "book_borrows" }

// Active reports whether the borrow has not been returned yet.
func (b Borrow) Active() bool { return b.ReturnDate == nil }

type Reminder struct {
	ID           string       `gorm:"type:uuid;primaryKey"`
	BorrowID     string       `gorm:"column:book_borrow_id;type:uuid;not null"`
	Type         ReminderType `gorm:"column:reminder_type;not null"`
	ScheduledFor time.Time    `gorm:"type:date;not null"`
	SentAt       *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Reminder) TableName() string { return "reminders" }

// BookSnapshot and ReaderSnapshot are read-only projections of catalog rows;
// the lending package never mutates books or readers.
type BookSnapshot struct {
	ID           string
	SerialNumber string
	Title        string
	Author       string
}

type ReaderSnapshot struct {
	ID           string
	SerialNumber string
	Email        string
	FullName     string
}

type BorrowWithReader struct {
	Borrow
	Reader ReaderSnapshot
}

type BorrowInput struct {
	BookID   string
	ReaderID string
}
