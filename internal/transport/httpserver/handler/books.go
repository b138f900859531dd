package handler

import (
	"net/http"

	bookdomain "library-lending-go/internal/domain/book"

	"github.com/go-chi/chi/v5"
)

type registerBookRequest struct {
	SerialNumber string `json:"serial_number"`
	Title        string `json:"title"`
	Author       string `json:"author"`
}

type updateBookRequest struct {
	SerialNumber *string `json:"serial_number"`
	Title        *string `json:"title"`
	Author       *string `json:"author"`
}

type bookResponse struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serial_number"`
	Title        string `json:"title"`
	Author       string `json:"author"`
}

type bookWithStatusResponse struct {
	bookResponse
	Status string `json:"status"`
}

type listBooksResponse struct {
	Data []bookWithStatusResponse `json:"data"`
	Meta listMeta                 `json:"meta"`
}

type listMeta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

type bookDetailsResponse struct {
	bookResponse
	Status  string                `json:"status"`
	Borrows []borrowEntryResponse `json:"borrows"`
}

type borrowEntryResponse struct {
	ReaderCardNumber string  `json:"reader_card_number"`
	ReaderEmail      string  `json:"reader_email"`
	BorrowDate       string  `json:"borrow_date"`
	DueDate          string  `json:"due_date"`
	ReturnDate       *string `json:"return_date"`
}

func (h *Handlers) RegisterBook(w http.ResponseWriter, r *http.Request) {
	var req registerBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Books.Register(r.Context(), bookdomain.RegisterInput{
		SerialNumber: req.SerialNumber,
		Title:        req.Title,
		Author:       req.Author,
	})
	if err != nil {
		h.respondError(w, "books.register", err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookResponse(*created))
}

func (h *Handlers) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Books.Update(r.Context(), bookdomain.UpdateInput{
		ID:           chi.URLParam(r, "book_id"),
		SerialNumber: req.SerialNumber,
		Title:        req.Title,
		Author:       req.Author,
	})
	if err != nil {
		h.respondError(w, "books.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toBookResponse(*updated))
}

func (h *Handlers) DeregisterBook(w http.ResponseWriter, r *http.Request) {
	if err := h.Books.Deregister(r.Context(), chi.URLParam(r, "book_id")); err != nil {
		h.respondError(w, "books.deregister", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	details, err := h.Books.Get(r.Context(), chi.URLParam(r, "book_id"))
	if err != nil {
		h.respondError(w, "books.get", err)
		return
	}

	response := bookDetailsResponse{
		bookResponse: toBookResponse(details.Book),
		Status:       details.Status,
		Borrows:      make([]borrowEntryResponse, 0, len(details.Borrows)),
	}
	for _, borrow := range details.Borrows {
		response.Borrows = append(response.Borrows, borrowEntryResponse{
			ReaderCardNumber: borrow.ReaderCardNumber,
			ReaderEmail:      borrow.ReaderEmail,
			BorrowDate:       formatDate(borrow.BorrowDate),
			DueDate:          formatDate(borrow.DueDate),
			ReturnDate:       formatDatePtr(borrow.ReturnDate),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ListBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := parseIntParam(query.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	perPage, err := parseIntParam(query.Get("per_page"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid per_page")
		return
	}

	filter := bookdomain.ListFilter{
		Status:  query.Get("status"),
		Page:    page,
		PerPage: perPage,
	}

	books, total, err := h.Books.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, "books.list", err)
		return
	}

	data := make([]bookWithStatusResponse, 0, len(books))
	for _, entry := range books {
		data = append(data, bookWithStatusResponse{
			bookResponse: toBookResponse(entry.Book),
			Status:       entry.Status,
		})
	}

	page, perPage = normalizedMeta(filter)
	writeJSON(w, http.StatusOK, listBooksResponse{
		Data: data,
		Meta: listMeta{Total: total, Page: page, PerPage: perPage},
	})
}

func normalizedMeta(filter bookdomain.ListFilter) (int, int) {
	page, perPage := filter.Page, filter.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = bookdomain.DefaultPerPage
	}
	if perPage > bookdomain.MaxPerPage {
		perPage = bookdomain.MaxPerPage
	}
	return page, perPage
}

func toBookResponse(book bookdomain.Book) bookResponse {
	return bookResponse{
		ID:           book.ID,
		SerialNumber: book.SerialNumber,
		Title:        book.Title,
		Author:       book.Author,
	}
}
