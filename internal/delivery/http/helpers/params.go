package helpers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the format of date query parameters and date fields in request bodies.
const DateLayout = "2006-01-02"

// PathUUID reads a path value and checks it is a UUID. On failure it writes 400 and returns false.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return id.String(), true
}

// QueryBool parses an optional boolean query parameter. An empty value returns nil.
func QueryBool(r *http.Request, name string) (*bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter. An empty value returns nil.
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
