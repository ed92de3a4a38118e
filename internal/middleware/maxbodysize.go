package middleware

import "net/http"

// tooLargeBody matches the JSON envelope the API handlers write.
const tooLargeBody = `{"statusCode":413,"data":null,"message":"request body too large","success":false,"errors":["request body too large"]}` + "\n"

// NewMaxBodySizeHandler caps request bodies at limit bytes, image uploads
// included. A declared Content-Length over the limit is answered with 413
// straight away. Otherwise the body is wrapped in http.MaxBytesReader and
// the handler's form parsing reports the overflow.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Connection", "close")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(tooLargeBody))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
