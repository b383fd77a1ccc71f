package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"field-tech-api/internal/carrier"
	"field-tech-api/internal/model"
	"field-tech-api/pkg/apierror"
)

// exposeInternalErrors controls whether 500 responses carry the error text.
// It is switched off in production.
var exposeInternalErrors atomic.Bool

func ExposeInternalErrors(expose bool) {
	exposeInternalErrors.Store(expose)
}

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	writeEnvelope(w, status, model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, status, model.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, body model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status, body := classifyError(err)
	writeEnvelope(w, status, model.ErrorResponse(*body))
}

func errorEnvelope(code string, message string) model.APIResponse {
	return model.ErrorResponse(model.APIError{Code: code, Message: message})
}

func classifyError(err error) (int, *model.APIError) {
	var apiErr *apierror.APIError
	var validationErr *ValidationError
	var upstreamErr *carrier.UpstreamError

	switch {
	case errors.As(err, &apiErr):
		return apiErr.HTTPStatus, &model.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, &model.APIError{Code: "VALIDATION_ERROR", Message: "Invalid request", Details: validationErr.Error()}
	case errors.Is(err, carrier.ErrCustomerNotFound):
		return http.StatusNotFound, &model.APIError{Code: "NOT_FOUND", Message: "Customer not found at carrier"}
	case errors.Is(err, carrier.ErrNotConfigured):
		return http.StatusBadGateway, &model.APIError{Code: "UPSTREAM_ERROR", Message: "Carrier integration is not configured"}
	case errors.As(err, &upstreamErr):
		details := upstreamErr.Body
		if details == "" {
			details = upstreamErr.Error()
		}
		return http.StatusBadGateway, &model.APIError{Code: "UPSTREAM_ERROR", Message: "Carrier portal request failed", Details: details}
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, &model.APIError{Code: "UNAUTHORIZED", Message: "Invalid credentials"}
	case errors.Is(err, model.ErrMissingToken):
		return http.StatusUnauthorized, &model.APIError{Code: "UNAUTHORIZED", Message: "missing credential"}
	case errors.Is(err, model.ErrTokenInvalid), errors.Is(err, model.ErrTokenExpired):
		return http.StatusUnauthorized, &model.APIError{Code: "UNAUTHORIZED", Message: "invalid or expired credential"}
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, &model.APIError{Code: "UNAUTHORIZED", Message: "Authentication required"}
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, &model.APIError{Code: "FORBIDDEN", Message: "Access denied"}
	case errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound, &model.APIError{Code: "NOT_FOUND", Message: "User not found"}
	case errors.Is(err, model.ErrClientNotFound):
		return http.StatusNotFound, &model.APIError{Code: "NOT_FOUND", Message: "Client not found"}
	case errors.Is(err, model.ErrPhotoNotFound):
		return http.StatusNotFound, &model.APIError{Code: "NOT_FOUND", Message: "Photo not found"}
	case errors.Is(err, model.ErrClientAlreadyExists):
		return http.StatusConflict, &model.APIError{Code: "CONFLICT", Message: "Client already registered"}
	case errors.Is(err, model.ErrNothingToUpdate):
		return http.StatusBadRequest, &model.APIError{Code: "BAD_REQUEST", Message: "nothing to update"}
	case errors.Is(err, model.ErrInvalidTaxID):
		return http.StatusBadRequest, &model.APIError{Code: "BAD_REQUEST", Message: "CPF must have 11 digits"}
	case errors.Is(err, model.ErrInvalidSerial):
		return http.StatusBadRequest, &model.APIError{Code: "BAD_REQUEST", Message: "Serial must have at least 3 characters"}
	case errors.Is(err, model.ErrPhotoTooLarge):
		return http.StatusBadRequest, &model.APIError{Code: "PAYLOAD_TOO_LARGE", Message: "Photo exceeds the size limit"}
	case errors.Is(err, model.ErrUnsupportedImage):
		return http.StatusBadRequest, &model.APIError{Code: "UNSUPPORTED_MEDIA", Message: "Unsupported image type"}
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, &model.APIError{Code: "BAD_REQUEST", Message: "Invalid input", Details: err.Error()}
	}

	slog.Error("unhandled error in writeError", "error", err.Error())
	body := &model.APIError{Code: "INTERNAL_ERROR", Message: "Unexpected server error"}
	if exposeInternalErrors.Load() {
		body.Details = err.Error()
	}
	return http.StatusInternalServerError, body
}

var (
	errDocsNotConfigured = apierror.New("NOT_FOUND", "API documentation is not configured", "", http.StatusNotFound)
	errDocsNotFound      = apierror.NotFound("API documentation not found", "")
)

// NotFound and MethodNotAllowed render chi's fallbacks as envelopes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, apierror.NotFound("Route not found", ""))
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, apierror.MethodNotAllowed())
}
