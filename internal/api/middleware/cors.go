package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// CORS allows browser requests from the listed origins. "*" allows any
// origin without credentials. Preflight requests from an allowed origin are
// answered with 204 and never reach the router.
func CORS(origins []string) mux.MiddlewareFunc {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.MaxAge(600),
		handlers.OptionStatusCode(http.StatusNoContent),
	)
}
