package middleware

import (
	"net/http"
	"strings"
)

// The widget and the coach dashboard only ever send JSON bodies and bearer
// tokens over GET/POST/DELETE, so the grant is kept that narrow.
const (
	corsAllowHeaders = "Authorization, Content-Type"
	corsAllowMethods = "GET, POST, DELETE, OPTIONS"
	corsMaxAge       = "600"
)

// CORS restricts browser access to the sites allowed to embed the chat
// widget. Origins match exactly, scheme included. A "*" entry in the
// allowlist echoes any Origin back.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny, allow := buildAllowlist(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin != "" {
				if _, ok := allow[origin]; ok || allowAny {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
					h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
					h.Set("Access-Control-Allow-Methods", corsAllowMethods)
					h.Set("Access-Control-Max-Age", corsMaxAge)
				}
				if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func buildAllowlist(origins []string) (allowAny bool, allow map[string]struct{}) {
	allow = make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		switch origin = strings.TrimSpace(origin); origin {
		case "":
		case "*":
			allowAny = true
		default:
			allow[origin] = struct{}{}
		}
	}
	return allowAny, allow
}
