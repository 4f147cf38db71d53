package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/lojf/tuition/internal/services"
)

// Conn hands out the database; the router passes db.Conn.
type Conn func() *gorm.DB

// PaymentsChildren lists every child with their fee balance.
func PaymentsChildren(conn Conn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := services.ChildSummaries(conn().WithContext(r.Context()))
		if err != nil {
			log.Printf("Failed to fetch children: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch children data"}, "")
			return
		}
		writeJSON(w, http.StatusOK, rows, "Failed to fetch children data")
	}
}

// PaymentsChild is the single-child variant of PaymentsChildren.
func PaymentsChild(conn Conn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		row, err := services.FindChildSummary(conn().WithContext(r.Context()), id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "Child not found"}, "")
			return
		}
		if err != nil {
			log.Printf("Failed to fetch child %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch child data"}, "")
			return
		}
		writeJSON(w, http.StatusOK, row, "Failed to fetch child data")
	}
}

// PaymentsChildQR renders a QR code pointing at the child's live balance.
func PaymentsChildQR(conn Conn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var n int64
		if err := conn().WithContext(r.Context()).Table("children").Where("id = ?", id).Count(&n).Error; err != nil {
			log.Printf("qr lookup %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch child data"}, "")
			return
		}
		if n == 0 {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "Child not found"}, "")
			return
		}

		png, err := qrcode.Encode(balanceURL(r, id), qrcode.Medium, 256)
		if err != nil {
			log.Printf("qr encode %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to generate QR code"}, "")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

// balanceURL is the absolute single-child summary URL as the client reached us.
func balanceURL(r *http.Request, id string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host + "/api/payments/children/" + url.PathEscape(id)
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v before committing the status. If v cannot be encoded
// the client gets a 500 with failMsg (or a generic message) instead.
func writeJSON(w http.ResponseWriter, status int, v any, failMsg string) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("write json: %v", err)
		if failMsg == "" {
			failMsg = "Internal server error"
		}
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorBody{Error: failMsg})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
