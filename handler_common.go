package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"teportal/internal/auth"
	"teportal/internal/filter"
	"teportal/internal/repo"
	"teportal/internal/scope"
	"teportal/internal/store"
	"teportal/internal/validation"
)

// canMutate reports whether the session may modify a record owned by
// owner. Records are mutable by their creator and by elevated roles.
func canMutate(sess auth.Session, owner string) bool {
	return scope.Elevated(sess.Role) || owner == sess.Username
}

func jsonResp(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeRepoErr maps repository errors onto HTTP responses. Validation
// failures return every violation; storage errors stay generic.
func writeRepoErr(w http.ResponseWriter, err error) {
	var ve *validation.ValidationErrors
	switch {
	case errors.As(err, &ve):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(400)
		json.NewEncoder(w).Encode(map[string]any{"error": ve.Error(), "errors": ve.Errors})
	case errors.Is(err, repo.ErrNotFound):
		jsonErr(w, "Record not found", 404)
	case errors.Is(err, repo.ErrSuperuserProtected):
		jsonErr(w, err.Error(), 403)
	case errors.Is(err, store.ErrCorrupt):
		jsonErr(w, "Stored data is corrupted: "+err.Error(), 500)
	default:
		jsonErr(w, err.Error(), 500)
	}
}

// queryFilter builds the shared list filter from query parameters.
// eq fields match exactly, search fields match case-insensitive
// substrings, and date_from/date_to bound the named date field.
func queryFilter(r *http.Request, eqFields, searchFields []string, dateField string) *filter.Filter {
	q := r.URL.Query()
	f := &filter.Filter{}
	for _, name := range eqFields {
		f.MaybeEq(name, q.Get(name))
	}
	for _, name := range searchFields {
		f.MaybeContains(name, q.Get(name))
	}
	if dateField != "" {
		f.DateFrom(dateField, q.Get("date_from"))
		f.DateTo(dateField, q.Get("date_to"))
	}
	return f
}
