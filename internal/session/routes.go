// internal/session/routes.go

package session

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all session routes.
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *Middleware) {
	auth := router.PathPrefix("/api/auth").Subrouter()

	// Public
	auth.HandleFunc("/login", handler.Login).Methods("POST")

	// Bootstrap works for everyone: anonymous, public-store and logged-in
	auth.Handle("/session", middleware.OptionalAuthenticate(http.HandlerFunc(handler.Bootstrap))).Methods("GET")

	// Protected
	auth.Handle("/logout", middleware.Authenticate(http.HandlerFunc(handler.Logout))).Methods("POST")
	auth.Handle("/stores", middleware.Authenticate(http.HandlerFunc(handler.ListStores))).Methods("GET")
	auth.Handle("/store", middleware.Authenticate(http.HandlerFunc(handler.SelectStore))).Methods("POST")
	auth.Handle("/store", middleware.Authenticate(http.HandlerFunc(handler.ChangeStore))).Methods("DELETE")
}
