package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lojf/tuition/internal/db"
	"github.com/lojf/tuition/internal/handlers"
)

func Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Health)

	r.Route("/api/payments", func(ar chi.Router) {
		ar.Get("/children", handlers.PaymentsChildren(db.Conn))
		ar.Get("/children/{id}", handlers.PaymentsChild(db.Conn))
		ar.Get("/children/{id}/qr.png", handlers.PaymentsChildQR(db.Conn))
	})

	return r
}
