// internal/participation/routes.go
package participation

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the direct registration route. It is public, but
// an optional session lets promoters record under their own ID.
func RegisterRoutes(router *mux.Router, handler *Handler, optionalAuth func(http.Handler) http.Handler) {
	participations := router.PathPrefix("/api/participations").Subrouter()
	participations.Use(optionalAuth)

	participations.HandleFunc("", handler.Register).Methods("POST")
}
