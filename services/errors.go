package services

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBusy           = errors.New("another change is still in progress")
	ErrNotEditing     = errors.New("dish form is not open")
	ErrNoDeleteTarget = errors.New("no dish selected for deletion")
	ErrEmptySelection = errors.New("no dishes selected")
	ErrUnknownDish    = errors.New("dish is not in the current list")
	ErrAlreadyOnMenu  = errors.New("dish is already on today's menu")
	ErrAssetTooLarge  = errors.New("image file is too large")
	ErrEmptyAsset     = errors.New("image file is empty")
	ErrNoUploader     = errors.New("image uploads are not configured")
)

// APIError is a non-2xx answer from the backend or the asset host.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed (%d): %s", e.Op, e.StatusCode, e.Message)
}

// TransportError means the request never got a usable answer: the
// connection failed or the body could not be decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
