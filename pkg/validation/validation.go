package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
)

const (
	SerialNumberMin = 100000
	SerialNumberMax = 999999
)

var serialNumberPattern = regexp.MustCompile(`^\d{6}$`)

// Error is a field-level validation failure. Handlers map it to a
// validation_failed response instead of a conflict or not-found.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + " " + e.Message
}

func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

func Errorf(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewError(field, "is required")
	}
	return nil
}

// SerialNumber checks the six-digit card/book number format and the
// 100000-999999 range. Leading zeroes match the format but fall out of range.
func SerialNumber(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if !serialNumberPattern.MatchString(value) {
		return NewError(field, "must be a six-digit number")
	}
	number, err := strconv.Atoi(value)
	if err != nil || number < SerialNumberMin || number > SerialNumberMax {
		return Errorf(field, "must be between %d and %d", SerialNumberMin, SerialNumberMax)
	}
	return nil
}

func EmailAddress(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return NewError(field, "is not a valid email address")
	}
	return nil
}
