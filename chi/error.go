package chi

import (
	"encoding/json"
	"net/http"

	"github.com/fwojciec/prodfind"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	prodfind.EINVALID:  http.StatusBadRequest,
	prodfind.ENOTFOUND: http.StatusNotFound,
	prodfind.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes err as a JSON error response. Internal errors are logged
// and their details are not exposed.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := prodfind.ErrorCode(err), prodfind.ErrorMessage(err)

	if code == prodfind.EINTERNAL {
		s.logger().Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	writeJSON(w, ErrorStatusCode(code), &ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
