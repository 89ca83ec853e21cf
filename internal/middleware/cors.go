package middleware

import (
	"net/http"

	rscors "github.com/rs/cors"

	"github.com/launchbase/api-template/internal/config"
)

// CORS builds CORS middleware from the configuration resolved at startup.
// The resolved values are handed to rs/cors verbatim; there is no runtime
// mutation after construction.
func CORS(resolved config.ResolvedCORS) func(http.Handler) http.Handler {
	opts := rscors.Options{
		AllowedOrigins:   resolved.Origins,
		AllowCredentials: resolved.AllowCredentials,
		AllowedMethods:   resolved.Methods,
		AllowedHeaders:   resolved.Headers,
		MaxAge:           resolved.MaxAge,
	}
	if len(resolved.Origins) == 0 {
		// rs/cors treats an empty origin list as "allow all". An empty
		// resolved list means zero allowed origins (fail closed), so pin
		// the origin check shut.
		opts.AllowOriginFunc = func(origin string) bool { return false }
	}
	c := rscors.New(opts)
	return c.Handler
}
