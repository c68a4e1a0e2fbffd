// internal/otpflow/routes.go

package otpflow

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the OTP flow routes. The auth middleware decides
// who may open a flow; public QR surfaces use OptionalAuthenticate upstream.
func RegisterRoutes(router *mux.Router, handler *Handler, authenticate func(http.Handler) http.Handler) {
	flows := router.PathPrefix("/api/otp/flows").Subrouter()
	flows.Use(authenticate)

	flows.HandleFunc("", handler.CreateFlow).Methods("POST")
	flows.HandleFunc("/{id}", handler.GetFlow).Methods("GET")
	flows.HandleFunc("/{id}", handler.DeleteFlow).Methods("DELETE")
	flows.HandleFunc("/{id}/phone", handler.SubmitPhone).Methods("POST")
	flows.HandleFunc("/{id}/code", handler.InputCode).Methods("POST")
	flows.HandleFunc("/{id}/resend", handler.Resend).Methods("POST")
	flows.HandleFunc("/{id}/edit", handler.EditPhone).Methods("POST")
}
