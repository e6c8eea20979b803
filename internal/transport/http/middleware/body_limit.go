package middleware

import "net/http"

// BodyLimit caps mutation payloads. The largest legitimate request in the
// system is a period-variables save (a concept-amount map per worker), which
// stays far below any sane cap; everything bigger is noise or abuse.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				switch r.Method {
				case http.MethodPost, http.MethodPut, http.MethodPatch:
					r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
