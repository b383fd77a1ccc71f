package middleware

import (
	"encoding/json"
	"net/http"

	"field-tech-api/internal/model"
)

func writeJSONError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse(model.APIError{Code: code, Message: message}))
}
