package book

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrSerialNumberTaken = errors.New("serial number already taken")
)
