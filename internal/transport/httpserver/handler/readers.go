package handler

import (
	"net/http"

	readerdomain "library-lending-go/internal/domain/reader"

	"github.com/go-chi/chi/v5"
)

type registerReaderRequest struct {
	SerialNumber string `json:"serial_number"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
}

type updateReaderRequest struct {
	SerialNumber *string `json:"serial_number"`
	Email        *string `json:"email"`
	FullName     *string `json:"full_name"`
}

type readerResponse struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serial_number"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
}

type listReadersResponse struct {
	Data []readerResponse `json:"data"`
	Meta listMeta         `json:"meta"`
}

func (h *Handlers) RegisterReader(w http.ResponseWriter, r *http.Request) {
	var req registerReaderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Readers.Register(r.Context(), readerdomain.RegisterInput{
		SerialNumber: req.SerialNumber,
		Email:        req.Email,
		FullName:     req.FullName,
	})
	if err != nil {
		h.respondError(w, "readers.register", err)
		return
	}

	writeJSON(w, http.StatusCreated, toReaderResponse(*created))
}

func (h *Handlers) UpdateReader(w http.ResponseWriter, r *http.Request) {
	var req updateReaderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Readers.Update(r.Context(), readerdomain.UpdateInput{
		ID:           chi.URLParam(r, "reader_id"),
		SerialNumber: req.SerialNumber,
		Email:        req.Email,
		FullName:     req.FullName,
	})
	if err != nil {
		h.respondError(w, "readers.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toReaderResponse(*updated))
}

func (h *Handlers) DeregisterReader(w http.ResponseWriter, r *http.Request) {
	if err := h.Readers.Deregister(r.Context(), chi.URLParam(r, "reader_id")); err != nil {
		h.respondError(w, "readers.deregister", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetReader(w http.ResponseWriter, r *http.Request) {
	record, err := h.Readers.Get(r.Context(), chi.URLParam(r, "reader_id"))
	if err != nil {
		h.respondError(w, "readers.get", err)
		return
	}
	writeJSON(w, http.StatusOK, toReaderResponse(*record))
}

func (h *Handlers) ListReaders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := parseIntParam(query.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	perPage, err := parseIntParam(query.Get("per_page"), readerdomain.DefaultPerPage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid per_page")
		return
	}

	readers, total, err := h.Readers.List(r.Context(), readerdomain.ListFilter{Page: page, PerPage: perPage})
	if err != nil {
		h.respondError(w, "readers.list", err)
		return
	}

	data := make([]readerResponse, 0, len(readers))
	for _, record := range readers {
		data = append(data, toReaderResponse(record))
	}

	if page < 1 {
		page = 1
	}
	if perPage > readerdomain.MaxPerPage {
		perPage = readerdomain.MaxPerPage
	}
	writeJSON(w, http.StatusOK, listReadersResponse{
		Data: data,
		Meta: listMeta{Total: total, Page: page, PerPage: perPage},
	})
}

func toReaderResponse(record readerdomain.Reader) readerResponse {
	return readerResponse{
		ID:           record.ID,
		SerialNumber: record.SerialNumber,
		Email:        record.Email,
		FullName:     record.FullName,
	}
}
