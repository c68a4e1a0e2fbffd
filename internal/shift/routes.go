// internal/shift/routes.go
package shift

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the promoter dashboard routes. All of them
// require an authenticated promoter session.
func RegisterRoutes(router *mux.Router, handler *Handler, authenticate func(http.Handler) http.Handler) {
	dashboard := router.PathPrefix("/api/dashboard").Subrouter()
	dashboard.Use(authenticate)

	dashboard.HandleFunc("", handler.Dashboard).Methods("GET")
	dashboard.HandleFunc("/stream", handler.Stream).Methods("GET")
}
