package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON encodes data as the JSON body of a response with statusCode.
// Control API responses describe local state, so they are marked
// non-cacheable. HTML characters are not escaped.
//
// If encoding fails nothing but a 500 Internal Server Error is written and
// the wrapped error is returned.
//
//	WriteJSON(w, models.SyncStatus{Module: "assign", EntityID: 42}, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)

	return w.Write(buf.Bytes())
}
