package api

import (
	"net/http"

	"github.com/AlexZinkM/phantom-waitlist/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(h *handler.WaitlistHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Page and deep-link callback
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/callback", h.Callback)

	// Connect endpoints
	mux.HandleFunc("/api/connect", h.Connect)
	mux.HandleFunc("/api/connect/qr", h.ConnectQR)
	mux.HandleFunc("/api/connect/flows/{id}", h.FlowStatus)

	// Session and whitelist endpoints
	mux.HandleFunc("/api/session", h.Session)
	mux.HandleFunc("/api/session/reset", h.ResetSession)
	mux.HandleFunc("/api/whitelist", h.Join)

	return mux
}
