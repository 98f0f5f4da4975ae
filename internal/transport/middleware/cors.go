package middleware

import (
	"github.com/go-chi/cors"
)

// CORS is the shared cross-origin policy for the API. The list password
// header has to be allowed explicitly so browsers can unlock
// password-protected lists, and the trace ID is exposed so clients can
// quote it in bug reports.
var CORS = cors.Handler(cors.Options{
	AllowedOrigins: []string{"https://*", "http://*"},
	AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-List-Password", "X-Trace-ID"},
	ExposedHeaders: []string{"X-Trace-ID"},
	MaxAge:         300,
})
