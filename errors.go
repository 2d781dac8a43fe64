package brainrot

import (
	"fmt"

	"github.com/pkg/errors"
)

// The API server reports failures FastAPI-style, as a JSON body of the form
// {"detail": ...}. Each error type below unmarshals that body for one of the
// status codes the client distinguishes.

type ErrAuthentication struct {
	Detail string `json:"detail"`
}

func (e *ErrAuthentication) Error() string {
	return fmt.Sprintf("could not authenticate the request: %s", e.Detail)
}

type ErrAuthorization struct {
	Detail string `json:"detail"`
}

func (e *ErrAuthorization) Error() string {
	return fmt.Sprintf("the request is not authorized: %s", e.Detail)
}

type ErrBadRequest struct {
	Detail string `json:"detail"`
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %s", e.Detail)
}

type ErrNotFound struct {
	Detail string `json:"detail"`
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("not found: %s", e.Detail)
}

type ErrConflict struct {
	Detail string `json:"detail"`
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("conflict: %s", e.Detail)
}

type ErrInternalServer struct {
	Detail string `json:"detail"`
}

func (e *ErrInternalServer) Error() string {
	return "an internal server error occurred"
}

// errorDetail extracts server-provided detail from any of the typed API
// errors above. It returns the empty string for transport-level errors,
// which carry no server message.
func errorDetail(err error) string {
	switch e := errors.Cause(err).(type) {
	case *ErrAuthentication:
		return e.Detail
	case *ErrAuthorization:
		return e.Detail
	case *ErrBadRequest:
		return e.Detail
	case *ErrNotFound:
		return e.Detail
	case *ErrConflict:
		return e.Detail
	}
	return ""
}
