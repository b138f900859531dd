package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	bookdomain "library-lending-go/internal/domain/book"
	lendingdomain "library-lending-go/internal/domain/lending"
	readerdomain "library-lending-go/internal/domain/reader"
	"library-lending-go/pkg/validation"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

var notFoundErrors = []error{
	bookdomain.ErrBookNotFound,
	readerdomain.ErrReaderNotFound,
	lendingdomain.ErrBookNotFound,
	lendingdomain.ErrReaderNotFound,
	lendingdomain.ErrBorrowNotFound,
	lendingdomain.ErrReminderNotFound,
}

var conflictErrors = []error{
	bookdomain.ErrSerialNumberTaken,
	readerdomain.ErrSerialNumberTaken,
	readerdomain.ErrEmailTaken,
	lendingdomain.ErrBookAlreadyBorrowed,
	lendingdomain.ErrBookNotBorrowed,
	lendingdomain.ErrReminderExists,
}

// respondError resolves every domain failure into one of the four response
// kinds; storage-level error shapes never reach the client.
func (h *Handlers) respondError(w http.ResponseWriter, op string, err error) {
	var fieldErr *validation.Error
	if errors.As(err, &fieldErr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Error: errorBody{
			Code:    "validation_failed",
			Message: fieldErr.Error(),
			Fields:  map[string]string{fieldErr.Field: fieldErr.Message},
		}})
		return
	}

	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			h.log.BusinessError(op+": not found", err)
			writeError(w, http.StatusNotFound, "not_found", sentinel.Error())
			return
		}
	}

	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			h.log.BusinessError(op+": conflict", err)
			writeError(w, http.StatusConflict, "conflict", sentinel.Error())
			return
		}
	}

	h.log.InternalError(op+": failed", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
