package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrMissingToken = errors.New("missing credential")
	ErrTokenInvalid = errors.New("invalid credential")
	ErrTokenExpired = errors.New("credential expired")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Client registry errors
	ErrClientNotFound      = errors.New("client not found")
	ErrClientAlreadyExists = errors.New("client already exists")
	ErrNothingToUpdate     = errors.New("nothing to update")
	ErrInvalidTaxID        = errors.New("invalid cpf")
	ErrInvalidSerial       = errors.New("invalid serial")

	// Photo errors
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrPhotoTooLarge    = errors.New("photo too large")
	ErrUnsupportedImage = errors.New("unsupported image type")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
