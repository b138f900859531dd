package httpserver

import (
	"net/http"
	"time"

	"library-lending-go/internal/config"
	"library-lending-go/internal/transport/httpserver/handler"
	corsmw "library-lending-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(corsmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/live", handlers.HealthLive)
			r.Get("/ready", handlers.HealthReady)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", handlers.ListBooks)
			r.Post("/", handlers.RegisterBook)
			r.Get("/{book_id}", handlers.GetBook)
			r.Patch("/{book_id}", handlers.UpdateBook)
			r.Delete("/{book_id}", handlers.DeregisterBook)

			r.Post("/{book_id}/borrow", handlers.BorrowBook)
			r.Post("/{book_id}/return", handlers.ReturnBook)
			r.Get("/{book_id}/borrows", handlers.ListBorrows)
		})

		r.Route("/readers", func(r chi.Router) {
			r.Get("/", handlers.ListReaders)
			r.Post("/", handlers.RegisterReader)
			r.Get("/{reader_id}", handlers.GetReader)
			r.Patch("/{reader_id}", handlers.UpdateReader)
			r.Delete("/{reader_id}", handlers.DeregisterReader)
		})
	})

	return r
}
