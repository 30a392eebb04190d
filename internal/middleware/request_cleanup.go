package middleware

import (
	"io"
	"net/http"
)

// DrainAndCloseRequest caps request bodies at maxBodyBytes and, once the
// handler returns, drains what is left so the connection can be reused.
// A non-positive maxBodyBytes disables the cap.
func DrainAndCloseRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body := r.Body
			if maxBodyBytes > 0 {
				r.Body = http.MaxBytesReader(w, body, maxBodyBytes)
			}
			next.ServeHTTP(w, r)

			drain := io.Reader(body)
			if maxBodyBytes > 0 {
				drain = io.LimitReader(body, maxBodyBytes+1)
			}
			_, _ = io.Copy(io.Discard, drain)
			_ = body.Close()
		})
	}
}
