package reader

import "errors"

var (
	ErrReaderNotFound    = errors.New("reader not found")
	ErrSerialNumberTaken = errors.New("serial number already taken")
	ErrEmailTaken        = errors.New("email already taken")
)
