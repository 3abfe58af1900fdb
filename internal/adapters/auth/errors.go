package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// writeAuthError renders authentication failures in the same JSON shape
// the REST handlers use.
func writeAuthError(w http.ResponseWriter, err error) {
	code := "INVALID_TOKEN"
	if errors.Is(err, ErrTokenExpired) {
		code = "TOKEN_EXPIRED"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   code,
		"message": err.Error(),
	})
}
