package httputil

import (
	"encoding/json"
	"maps"
	"mime"
	"net/http"
	"strconv"
)

// problemTypes maps status codes to RFC 7807 type URIs
var problemTypes = map[int]string{
	http.StatusBadRequest:            "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.1",
	http.StatusUnauthorized:          "https://datatracker.ietf.org/doc/html/rfc7235#section-3.1",
	http.StatusForbidden:             "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.3",
	http.StatusNotFound:              "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4",
	http.StatusConflict:              "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.8",
	http.StatusRequestEntityTooLarge: "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.11",
	http.StatusInternalServerError:   "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.1",
	http.StatusServiceUnavailable:    "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.4",
}

// ProblemDetail is an RFC 7807 problem document. Extra members are flattened into the top level.
type ProblemDetail struct {
	Type   string
	Title  string
	Status int
	Detail string
	Extra  map[string]any
}

// MarshalJSON flattens Extra next to the standard members. Standard members win on collision.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+4)
	maps.Copy(m, p.Extra)

	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}

	return json.Marshal(m)
}

// NewProblem builds the problem document for status
func NewProblem(status int, detail string) ProblemDetail {
	typ, ok := problemTypes[status]
	if !ok {
		typ = "about:blank"
	}
	return ProblemDetail{Type: typ, Title: http.StatusText(status), Status: status, Detail: detail}
}

// RespondJSON writes data as JSON. Encoding happens before the header is sent,
// so a marshal failure still produces a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondError writes an RFC 7807 error response
func RespondError(w http.ResponseWriter, status int, detail string) {
	writeProblem(w, NewProblem(status, detail))
}

// RespondErrorWithExtras writes an RFC 7807 error with additional members (field, errors, service)
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]any) {
	problem := NewProblem(status, detail)
	problem.Extra = extras
	writeProblem(w, problem)
}

// RespondFile writes a download with a Content-Disposition attachment header
func RespondFile(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeProblem(w http.ResponseWriter, problem ProblemDetail) {
	payload, err := json.Marshal(problem)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	w.Write(payload)
}
