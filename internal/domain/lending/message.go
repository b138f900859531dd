package lending

import (
	"fmt"
	"time"
)

const dueDateFormat = "January 2, 2006"

type Message struct {
	Subject string
	Body    string
}

func renderReminder(reminderType ReminderType, book *BookSnapshot, reader *ReaderSnapshot, dueDate time.Time) Message {
	due := dueDate.Format(dueDateFormat)

	switch reminderType {
	case ReminderDueDateAlert:
		return Message{
			Subject: fmt.Sprintf("Action Required: %q is due today", book.Title),
			Body: fmt.Sprintf(
				"Dear %s,\n\n"+
					"%q (serial number %s) is due today, %s.\n\n"+
					"Please return it to the library as soon as possible to avoid keeping other readers waiting.\n\n"+
					"Your library",
				reader.FullName, book.Title, book.SerialNumber, due),
		}
	default:
		return Message{
			Subject: fmt.Sprintf("Reminder: %q is due in 3 days", book.Title),
			Body: fmt.Sprintf(
				"Dear %s,\n\n"+
					"This is a friendly reminder that %q (serial number %s) is due for return in 3 days, on %s.\n\n"+
					"Please plan to return it on time.\n\n"+
					"Your library",
				reader.FullName, book.Title, book.SerialNumber, due),
		}
	}
}
