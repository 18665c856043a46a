package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes bounds JSON request bodies. Base64 settings logos are the largest payload.
const MaxBodyBytes = 10 << 20

// ErrEmptyBody is returned by ParseJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// ParseJSON decodes the request body into dest.
// Unknown fields are ignored because clients PATCH with the whole document object.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))

	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case errors.As(err, &tooLarge):
			return fmt.Errorf("request body exceeds %d bytes: %w", tooLarge.Limit, err)
		default:
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return nil
}
