package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"field-tech-api/internal/middleware"
	"field-tech-api/internal/model"
	"field-tech-api/pkg/apierror"
)

// defaultBodyLimit applies to every JSON body except photo uploads, which
// pass their own limit.
const defaultBodyLimit int64 = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError carries the humanized messages of a failed struct
// validation.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// decodeJSON reads at most limit bytes into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if limit <= 0 {
		limit = defaultBodyLimit
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apierror.New("PAYLOAD_TOO_LARGE", "Request body exceeds the size limit", "", http.StatusBadRequest)
		case errors.Is(err, io.EOF):
			return apierror.BadRequest("request body is required", "")
		default:
			return apierror.InvalidJSON()
		}
	}

	return validateRequest(dst)
}

func validateRequest(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldError(fe))
	}
	return &ValidationError{Messages: messages}
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", field, fe.Param())
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", field, fe.Tag())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

// actorFromRequest describes who made the request for audit purposes.
// Anonymous requests have a nil UserID.
func actorFromRequest(r *http.Request) model.Actor {
	actor := model.Actor{
		IP:        middleware.ClientIP(r),
		UserAgent: truncate(r.UserAgent(), 255),
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return actor
	}

	userID := identity.UserID
	actor.UserID = &userID
	actor.Username = identity.Username
	actor.Role = identity.Role

	return actor
}

func identityFromRequest(r *http.Request) (model.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return model.Identity{}, model.ErrUnauthorized
	}
	return identity, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
