package handler

import (
	"net/http"

	lendingdomain "library-lending-go/internal/domain/lending"

	"github.com/go-chi/chi/v5"
)

type borrowBookRequest struct {
	ReaderID string `json:"reader_id"`
}

type borrowResponse struct {
	ID               string  `json:"id"`
	BookID           string  `json:"book_id"`
	ReaderID         string  `json:"reader_id"`
	ReaderCardNumber string  `json:"reader_card_number"`
	ReaderEmail      string  `json:"reader_email"`
	BorrowDate       string  `json:"borrow_date"`
	DueDate          string  `json:"due_date"`
	ReturnDate       *string `json:"return_date"`
}

type listBorrowsResponse struct {
	Data []borrowResponse `json:"data"`
}

func (h *Handlers) BorrowBook(w http.ResponseWriter, r *http.Request) {
	var req borrowBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	borrow, err := h.Lending.BorrowBook(r.Context(), lendingdomain.BorrowInput{
		BookID:   chi.URLParam(r, "book_id"),
		ReaderID: req.ReaderID,
	})
	if err != nil {
		h.respondError(w, "lending.borrow", err)
		return
	}

	writeJSON(w, http.StatusCreated, toBorrowResponse(*borrow))
}

func (h *Handlers) ReturnBook(w http.ResponseWriter, r *http.Request) {
	borrow, err := h.Lending.ReturnBook(r.Context(), chi.URLParam(r, "book_id"))
	if err != nil {
		h.respondError(w, "lending.return", err)
		return
	}

	writeJSON(w, http.StatusOK, toBorrowResponse(*borrow))
}

func (h *Handlers) ListBorrows(w http.ResponseWriter, r *http.Request) {
	borrows, err := h.Lending.ListBorrowsByBook(r.Context(), chi.URLParam(r, "book_id"))
	if err != nil {
		h.respondError(w, "lending.list_borrows", err)
		return
	}

	data := make([]borrowResponse, 0, len(borrows))
	for _, borrow := range borrows {
		data = append(data, toBorrowResponse(borrow))
	}

	writeJSON(w, http.StatusOK, listBorrowsResponse{Data: data})
}

func toBorrowResponse(borrow lendingdomain.BorrowWithReader) borrowResponse {
	return borrowResponse{
		ID:               borrow.ID,
		BookID:           borrow.BookID,
		ReaderID:         borrow.ReaderID,
		ReaderCardNumber: borrow.Reader.SerialNumber,
		ReaderEmail:      borrow.Reader.Email,
		BorrowDate:       formatDate(borrow.BorrowDate),
		DueDate:          formatDate(borrow.DueDate),
		ReturnDate:       formatDatePtr(borrow.ReturnDate),
	}
}
