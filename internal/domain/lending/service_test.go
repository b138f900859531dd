package lending

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

const (
	bookID1   = "11111111-1111-1111-1111-111111111111"
	bookID2   = "11111111-1111-1111-1111-222222222222"
	readerID1 = "22222222-2222-2222-2222-111111111111"
	readerID2 = "22222222-2222-2222-2222-222222222222"
)

var testNow = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

type fakeState struct {
	mu        sync.Mutex
	books     map[string]BookSnapshot
	readers   map[string]ReaderSnapshot
	borrows   map[string]Borrow
	reminders map[string]Reminder
	seq       int

	hideActiveBorrow bool
}

func newFakeState() *fakeState {
	return &fakeState{
		books: map[string]BookSnapshot{
			bookID1: {ID: bookID1, SerialNumber: "100001", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald"},
			bookID2: {ID: bookID2, SerialNumber: "100002", Title: "Moby-Dick", Author: "Herman Melville"},
		},
		readers: map[string]ReaderSnapshot{
			readerID1: {ID: readerID1, SerialNumber: "200001", Email: "a@x.com", FullName: "Jane Doe"},
			readerID2: {ID: readerID2, SerialNumber: "200002", Email: "b@x.com", FullName: "John Roe"},
		},
		borrows:   map[string]Borrow{},
		reminders: map[string]Reminder{},
	}
}

type snapshot struct {
	borrows   map[string]Borrow
	reminders map[string]Reminder
	seq       int
}

func (s *fakeState) clone() snapshot {
	borrows := make(map[string]Borrow, len(s.borrows))
	for id, borrow := range s.borrows {
		if borrow.ReturnDate != nil {
			returned := *borrow.ReturnDate
			borrow.ReturnDate = &returned
		}
		borrows[id] = borrow
	}
	reminders := make(map[string]Reminder, len(s.reminders))
	for id, reminder := range s.reminders {
		if reminder.SentAt != nil {
			sent := *reminder.SentAt
			reminder.SentAt = &sent
		}
		reminders[id] = reminder
	}
	return snapshot{borrows: borrows, reminders: reminders, seq: s.seq}
}

func (s *fakeState) restore(snap snapshot) {
	s.borrows = snap.borrows
	s.reminders = snap.reminders
	s.seq = snap.seq
}

// fakeRepo mirrors the postgres repository's contract: transactions roll
// back on error and the active-borrow uniqueness rule is enforced on insert,
// not only by the read-check.
type fakeRepo struct {
	state *fakeState
	inTx  bool
}

func newFakeRepo(state *fakeState) *fakeRepo {
	return &fakeRepo{state: state}
}

func (r *fakeRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.state.mu.Lock()
	return r.state.mu.Unlock
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	snap := r.state.clone()
	if err := fn(&fakeRepo{state: r.state, inTx: true}); err != nil {
		r.state.restore(snap)
		return err
	}
	return nil
}

func (r *fakeRepo) GetBook(ctx context.Context, bookID string) (*BookSnapshot, error) {
	defer r.lock()()
	book, ok := r.state.books[bookID]
	if !ok {
		return nil, ErrBookNotFound
	}
	return &book, nil
}

func (r *fakeRepo) GetReader(ctx context.Context, readerID string) (*ReaderSnapshot, error) {
	defer r.lock()()
	reader, ok := r.state.readers[readerID]
	if !ok {
		return nil, ErrReaderNotFound
	}
	return &reader, nil
}

func (r *fakeRepo) GetActiveBorrow(ctx context.Context, bookID string) (*Borrow, error) {
	defer r.lock()()
	if r.state.hideActiveBorrow {
		return nil, nil
	}
	for _, borrow := range r.state.borrows {
		if borrow.BookID == bookID && borrow.ReturnDate == nil {
			found := borrow
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetBorrow(ctx context.Context, borrowID string) (*Borrow, error) {
	defer r.lock()()
	borrow, ok := r.state.borrows[borrowID]
	if !ok {
		return nil, ErrBorrowNotFound
	}
	return &borrow, nil
}

func (r *fakeRepo) GetBorrowWithReader(ctx context.Context, borrowID string) (*BorrowWithReader, error) {
	defer r.lock()()
	borrow, ok := r.state.borrows[borrowID]
	if !ok {
		return nil, ErrBorrowNotFound
	}
	return &BorrowWithReader{Borrow: borrow, Reader: r.state.readers[borrow.ReaderID]}, nil
}

func (r *fakeRepo) CreateBorrow(ctx context.Context, borrow *Borrow) error {
	defer r.lock()()
	for _, existing := range r.state.borrows {
		if existing.BookID == borrow.BookID && existing.ReturnDate == nil {
			return ErrBookAlreadyBorrowed
		}
	}
	r.state.seq++
	borrow.CreatedAt = testNow.Add(time.Duration(r.state.seq) * time.Second)
	r.state.borrows[borrow.ID] = *borrow
	return nil
}

func (r *fakeRepo) SetReturnDate(ctx context.Context, borrowID string, returnDate time.Time) error {
	defer r.lock()()
	borrow, ok := r.state.borrows[borrowID]
	if !ok || borrow.ReturnDate != nil {
		return ErrBookNotBorrowed
	}
	borrow.ReturnDate = &returnDate
	r.state.borrows[borrowID] = borrow
	return nil
}

func (r *fakeRepo) ListBorrowsByBook(ctx context.Context, bookID string) ([]BorrowWithReader, error) {
	defer r.lock()()
	var result []BorrowWithReader
	for _, borrow := range r.state.borrows {
		if borrow.BookID != bookID {
			continue
		}
		result = append(result, BorrowWithReader{Borrow: borrow, Reader: r.state.readers[borrow.ReaderID]})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].BorrowDate.Equal(result[j].BorrowDate) {
			return result[i].BorrowDate.After(result[j].BorrowDate)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeRepo) CreateReminder(ctx context.Context, reminder *Reminder) error {
	defer r.lock()()
	for _, existing := range r.state.reminders {
		if existing.BorrowID == reminder.BorrowID && existing.Type == reminder.Type {
			return ErrReminderExists
		}
	}
	r.state.reminders[reminder.ID] = *reminder
	return nil
}

func (r *fakeRepo) GetReminderForUpdate(ctx context.Context, reminderID string) (*Reminder, error) {
	defer r.lock()()
	reminder, ok := r.state.reminders[reminderID]
	if !ok {
		return nil, ErrReminderNotFound
	}
	return &reminder, nil
}

func (r *fakeRepo) MarkReminderSent(ctx context.Context, reminderID string, sentAt time.Time) error {
	defer r.lock()()
	reminder, ok := r.state.reminders[reminderID]
	if !ok {
		return ErrReminderNotFound
	}
	reminder.SentAt = &sentAt
	r.state.reminders[reminderID] = reminder
	return nil
}

func (r *fakeRepo) ListPendingReminders(ctx context.Context) ([]Reminder, error) {
	defer r.lock()()
	var result []Reminder
	for _, reminder := range r.state.reminders {
		if reminder.SentAt == nil {
			result = append(result, reminder)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledFor.Before(result[j].ScheduledFor)
	})
	return result, nil
}

type scheduleCall struct {
	reminderID   string
	reminderType ReminderType
	notBefore    time.Time
}

type fakeQueue struct {
	mu      sync.Mutex
	calls   []scheduleCall
	failErr error
}

func (q *fakeQueue) Schedule(ctx context.Context, reminderID string, reminderType ReminderType, notBefore time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failErr != nil {
		return q.failErr
	}
	q.calls = append(q.calls, scheduleCall{reminderID: reminderID, reminderType: reminderType, notBefore: notBefore})
	return nil
}

type sentMessage struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	failErr error
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.sent = append(s.sent, sentMessage{to: to, subject: subject, body: body})
	return nil
}

func newTestService() (*Service, *fakeState, *fakeQueue, *fakeSender) {
	state := newFakeState()
	queue := &fakeQueue{}
	sender := &fakeSender{}
	service := NewService(newFakeRepo(state), queue, sender, nil)
	service.now = func() time.Time { return testNow }
	return service, state, queue, sender
}

func today() time.Time {
	return time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC)
}

func TestBorrowBookSetsDatesAndLoanPeriod(t *testing.T) {
	service, _, _, _ := newTestService()

	borrow, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID1})
	if err != nil {
		t.Fatalf("BorrowBook: %v", err)
	}

	if !borrow.BorrowDate.Equal(today()) {
		t.Errorf("borrow date = %v, want %v", borrow.BorrowDate, today())
	}
	wantDue := today().AddDate(0, 0, 30)
	if !borrow.DueDate.Equal(wantDue) {
		t.Errorf("due date = %v, want %v", borrow.DueDate, wantDue)
	}
	if borrow.ReturnDate != nil {
		t.Errorf("return date = %v, want nil", borrow.ReturnDate)
	}
	if borrow.Reader.Email != "a@x.com" {
		t.Errorf("reader email = %q, want a@x.com", borrow.Reader.Email)
	}
}

func TestBorrowBookCreatesTwoScheduledReminders(t *testing.T) {
	service, state, queue, _ := newTestService()

	borrow, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID1})
	if err != nil {
		t.Fatalf("BorrowBook: %v", err)
	}

	if len(state.reminders) != 2 {
		t.Fatalf("reminder count = %d, want 2", len(state.reminders))
	}

	byType := map[ReminderType]Reminder{}
	for _, reminder := range state.reminders {
		if reminder.BorrowID != borrow.ID {
			t.Errorf("reminder borrow id = %q, want %q", reminder.BorrowID, borrow.ID)
		}
		if reminder.SentAt != nil {
			t.Errorf("reminder %s sent_at = %v, want nil", reminder.Type, reminder.SentAt)
		}
		byType[reminder.Type] = reminder
	}

	warning, ok := byType[ReminderThreeDaysWarning]
	if !ok {
		t.Fatal("missing 3_days_warning reminder")
	}
	if want := borrow.DueDate.AddDate(0, 0, -3); !warning.ScheduledFor.Equal(want) {
		t.Errorf("warning scheduled_for = %v, want %v", warning.ScheduledFor, want)
	}

	alert, ok := byType[ReminderDueDateAlert]
	if !ok {
		t.Fatal("missing due_date_alert reminder")
	}
	if !alert.ScheduledFor.Equal(borrow.DueDate) {
		t.Errorf("alert scheduled_for = %v, want %v", alert.ScheduledFor, borrow.DueDate)
	}

	if len(queue.calls) != 2 {
		t.Fatalf("queue calls = %d, want 2", len(queue.calls))
	}
	for _, call := range queue.calls {
		reminder := state.reminders[call.reminderID]
		if call.reminderType != reminder.Type {
			t.Errorf("scheduled type = %s, want %s", call.reminderType, reminder.Type)
		}
		want := time.Date(reminder.ScheduledFor.Year(), reminder.ScheduledFor.Month(), reminder.ScheduledFor.Day(), 0, 0, 0, 0, time.UTC)
		if !call.notBefore.Equal(want) {
			t.Errorf("scheduled fire time = %v, want %v", call.notBefore, want)
		}
	}
}

func TestBorrowBookUnknownBookAndReader(t *testing.T) {
	service, state, _, _ := newTestService()

	_, err := service.BorrowBook(context.Background(), BorrowInput{BookID: "missing", ReaderID: readerID1})
	if !errors.Is(err, ErrBookNotFound) {
		t.Errorf("unknown book err = %v, want ErrBookNotFound", err)
	}

	_, err = service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: "missing"})
	if !errors.Is(err, ErrReaderNotFound) {
		t.Errorf("unknown reader err = %v, want ErrReaderNotFound", err)
	}

	if len(state.borrows) != 0 || len(state.reminders) != 0 {
		t.Errorf("failed borrows left rows behind: %d borrows, %d reminders", len(state.borrows), len(state.reminders))
	}
}

func TestBorrowBookMissingInput(t *testing.T) {
	service, _, _, _ := newTestService()

	if _, err := service.BorrowBook(context.Background(), BorrowInput{ReaderID: readerID1}); err == nil {
		t.Error("missing book_id: want validation error")
	}
	if _, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1}); err == nil {
		t.Error("missing reader_id: want validation error")
	}
}

func TestBorrowBookConflictWhenAlreadyBorrowed(t *testing.T) {
	service, state, _, _ := newTestService()

	if _, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID1}); err != nil {
		t.Fatalf("first BorrowBook: %v", err)
	}

	_, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID2})
	if !errors.Is(err, ErrBookAlreadyBorrowed) {
		t.Fatalf("second BorrowBook err = %v, want ErrBookAlreadyBorrowed", err)
	}

	if len(state.borrows) != 1 {
		t.Errorf("borrow count = %d, want 1", len(state.borrows))
	}
	if len(state.reminders) != 2 {
		t.Errorf("reminder count = %d, want 2", len(state.reminders))
	}
}

func TestBorrowBookConstraintDecidesWhenReadCheckRaces(t *testing.T) {
	service, state, _, _ := newTestService()

	if _, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID1}); err != nil {
		t.Fatalf("first BorrowBook: %v", err)
	}

	// Simulate the race where the read-check misses the concurrent borrow;
	// the insert still has to fail with the same conflict.
	state.hideActiveBorrow = true
	_, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID2})
	if !errors.Is(err, ErrBookAlreadyBorrowed) {
		t.Fatalf("racing BorrowBook err = %v, want ErrBookAlreadyBorrowed", err)
	}

	if len(state.borrows) != 1 {
		t.Errorf("borrow count = %d, want 1", len(state.borrows))
	}
}

func TestBorrowBookConcurrentAttemptsSingleWinner(t *testing.T) {
	service, state, _, _ := newTestService()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID1})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrBookAlreadyBorrowed):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("successful borrows = %d, want 1", succeeded)
	}

	active := 0
	for _, borrow := range state.borrows {
		if borrow.ReturnDate == nil {
			active++
		}
	}
	if active != 1 {
		t.Errorf("active borrows = %d, want 1", active)
	}
}

func TestBorrowBookScheduleFailureRollsBackEverything(t *testing.T) {
	service, state, queue, _ := newTestService()
	queue.failErr = errors.New("broker unavailable")

	_, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID1})
	if err == nil {
		t.Fatal("BorrowBook: want error when scheduling fails")
	}

	if len(state.borrows) != 0 {
		t.Errorf("borrow count = %d, want 0 after rollback", len(state.borrows))
	}
	if len(state.reminders) != 0 {
		t.Errorf("reminder count = %d, want 0 after rollback", len(state.reminders))
	}
}

func TestReturnBookSetsReturnDate(t *testing.T) {
	service, _, _, _ := newTestService()

	if _, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID1}); err != nil {
		t.Fatalf("BorrowBook: %v", err)
	}

	returned, err := service.ReturnBook(context.Background(), bookID1)
	if err != nil {
		t.Fatalf("ReturnBook: %v", err)
	}
	if returned.ReturnDate == nil || !returned.ReturnDate.Equal(today()) {
		t.Errorf("return date = %v, want %v", returned.ReturnDate, today())
	}
}

func TestReturnBookConflictWhenNotBorrowed(t *testing.T) {
	service, _, _, _ := newTestService()

	if _, err := service.ReturnBook(context.Background(), bookID1); !errors.Is(err, ErrBookNotBorrowed) {
		t.Errorf("never borrowed err = %v, want ErrBookNotBorrowed", err)
	}

	if _, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID1}); err != nil {
		t.Fatalf("BorrowBook: %v", err)
	}
	if _, err := service.ReturnBook(context.Background(), bookID1); err != nil {
		t.Fatalf("ReturnBook: %v", err)
	}

	if _, err := service.ReturnBook(context.Background(), bookID1); !errors.Is(err, ErrBookNotBorrowed) {
		t.Errorf("double return err = %v, want ErrBookNotBorrowed", err)
	}

	if _, err := service.ReturnBook(context.Background(), "missing"); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("unknown book err = %v, want ErrBookNotFound", err)
	}
}

func TestReborrowAfterReturnCreatesIndependentBorrow(t *testing.T) {
	service, state, _, _ := newTestService()
	ctx := context.Background()

	first, err := service.BorrowBook(ctx, BorrowInput{BookID: bookID1, ReaderID: readerID1})
	if err != nil {
		t.Fatalf("first BorrowBook: %v", err)
	}
	if _, err := service.ReturnBook(ctx, bookID1); err != nil {
		t.Fatalf("ReturnBook: %v", err)
	}

	second, err := service.BorrowBook(ctx, BorrowInput{BookID: bookID1, ReaderID: readerID2})
	if err != nil {
		t.Fatalf("re-borrow: %v", err)
	}
	if second.ID == first.ID {
		t.Error("re-borrow reused the first borrow row")
	}
	if len(state.borrows) != 2 {
		t.Errorf("borrow count = %d, want 2", len(state.borrows))
	}

	borrows, err := service.ListBorrowsByBook(ctx, bookID1)
	if err != nil {
		t.Fatalf("ListBorrowsByBook: %v", err)
	}
	if len(borrows) != 2 {
		t.Fatalf("listed borrows = %d, want 2", len(borrows))
	}
	if borrows[0].ID != second.ID {
		t.Errorf("most recent borrow first: got %q, want %q", borrows[0].ID, second.ID)
	}
}

func borrowAndPickReminder(t *testing.T, service *Service, state *fakeState, reminderType ReminderType) (string, *BorrowWithReader) {
	t.Helper()
	borrow, err := service.BorrowBook(context.Background(), BorrowInput{BookID: bookID1, ReaderID: readerID1})
	if err != nil {
		t.Fatalf("BorrowBook: %v", err)
	}
	for id, reminder := range state.reminders {
		if reminder.Type == reminderType {
			return id, borrow
		}
	}
	t.Fatalf("no %s reminder created", reminderType)
	return "", nil
}

func TestDispatchReminderSendsAndMarksSent(t *testing.T) {
	service, state, _, sender := newTestService()
	reminderID, _ := borrowAndPickReminder(t, service, state, ReminderThreeDaysWarning)

	if err := service.DispatchReminder(context.Background(), reminderID); err != nil {
		t.Fatalf("DispatchReminder: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent messages = %d, want 1", len(sender.sent))
	}
	message := sender.sent[0]
	if message.to != "a@x.com" {
		t.Errorf("to = %q, want a@x.com", message.to)
	}
	if want := `Reminder: "The Great Gatsby" is due in 3 days`; message.subject != want {
		t.Errorf("subject = %q, want %q", message.subject, want)
	}

	reminder := state.reminders[reminderID]
	if reminder.SentAt == nil || !reminder.SentAt.Equal(testNow) {
		t.Errorf("sent_at = %v, want %v", reminder.SentAt, testNow)
	}
}

func TestDispatchReminderIdempotent(t *testing.T) {
	service, state, _, sender := newTestService()
	reminderID, _ := borrowAndPickReminder(t, service, state, ReminderDueDateAlert)

	if err := service.DispatchReminder(context.Background(), reminderID); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	if err := service.DispatchReminder(context.Background(), reminderID); err != nil {
		t.Fatalf("second dispatch: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Errorf("sent messages = %d, want 1", len(sender.sent))
	}
}

func TestDispatchReminderSuppressedAfterReturn(t *testing.T) {
	service, state, _, sender := newTestService()
	reminderID, _ := borrowAndPickReminder(t, service, state, ReminderThreeDaysWarning)

	if _, err := service.ReturnBook(context.Background(), bookID1); err != nil {
		t.Fatalf("ReturnBook: %v", err)
	}

	if err := service.DispatchReminder(context.Background(), reminderID); err != nil {
		t.Fatalf("DispatchReminder: %v", err)
	}

	if len(sender.sent) != 0 {
		t.Errorf("sent messages = %d, want 0", len(sender.sent))
	}
	if reminder := state.reminders[reminderID]; reminder.SentAt != nil {
		t.Errorf("sent_at = %v, want nil for suppressed reminder", reminder.SentAt)
	}
}

func TestDispatchReminderUnknownID(t *testing.T) {
	service, _, _, _ := newTestService()

	if err := service.DispatchReminder(context.Background(), "missing"); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("err = %v, want ErrReminderNotFound", err)
	}
}

func TestDispatchReminderSendFailureLeavesUnsent(t *testing.T) {
	service, state, _, sender := newTestService()
	reminderID, _ := borrowAndPickReminder(t, service, state, ReminderDueDateAlert)

	sender.failErr = errors.New("relay down")
	if err := service.DispatchReminder(context.Background(), reminderID); err == nil {
		t.Fatal("DispatchReminder: want error when sending fails")
	}
	if reminder := state.reminders[reminderID]; reminder.SentAt != nil {
		t.Errorf("sent_at = %v, want nil after failed send", reminder.SentAt)
	}

	// A later retry by the queue succeeds and marks the reminder sent.
	sender.failErr = nil
	if err := service.DispatchReminder(context.Background(), reminderID); err != nil {
		t.Fatalf("retry dispatch: %v", err)
	}
	if reminder := state.reminders[reminderID]; reminder.SentAt == nil {
		t.Error("sent_at still nil after successful retry")
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent messages = %d, want 1", len(sender.sent))
	}
}

func TestReschedulePendingSkipsSentReminders(t *testing.T) {
	service, state, queue, _ := newTestService()
	reminderID, _ := borrowAndPickReminder(t, service, state, ReminderThreeDaysWarning)

	if err := service.DispatchReminder(context.Background(), reminderID); err != nil {
		t.Fatalf("DispatchReminder: %v", err)
	}

	queue.calls = nil
	count, err := service.ReschedulePending(context.Background())
	if err != nil {
		t.Fatalf("ReschedulePending: %v", err)
	}
	if count != 1 {
		t.Errorf("rescheduled = %d, want 1 (only the unsent reminder)", count)
	}
	if len(queue.calls) != 1 {
		t.Fatalf("queue calls = %d, want 1", len(queue.calls))
	}
	if queue.calls[0].reminderID == reminderID {
		t.Error("rescheduled the already-sent reminder")
	}
}
