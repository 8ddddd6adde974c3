package proxy

import (
	"errors"
	"net/http"

	"studysharper/flashgate/pkg/proxy/types"
)

// Rejection reasons recorded for requests answered without a backend call.
const (
	ReasonMissingID    = "missing_id"
	ReasonInvalidID    = "invalid_id"
	ReasonBodyTooLarge = "body_too_large"
)

// RequestError is a problem with the inbound request detected before any
// backend call.
type RequestError struct {
	Status  int
	Message string
	Reason  string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// BackendError is a non-2xx backend answer, already reduced to the message
// relayed to the browser.
type BackendError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return e.Message
}

var errMissingID = &RequestError{
	Status:  http.StatusBadRequest,
	Message: types.MessageIDRequired,
	Reason:  ReasonMissingID,
}

var errInvalidID = &RequestError{
	Status:  http.StatusBadRequest,
	Message: types.MessageInvalidID,
	Reason:  ReasonInvalidID,
}

// HandleError maps err to the status and body the browser receives.
// RequestError and BackendError keep their status and message; anything
// else, including transport failures and cancellation, becomes a 500 with
// a generic message.
//
// Example usage:
//
//	if err != nil {
//	    status, body := HandleError(err)
//	    WriteErrorResponse(w, status, body)
//	    return
//	}
func HandleError(err error) (int, *types.ErrorResponse) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status, types.NewErrorResponse(reqErr.Message)
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Status, types.NewErrorResponse(backendErr.Message)
	}

	return http.StatusInternalServerError, types.NewServerError()
}
