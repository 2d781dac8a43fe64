package brainrot

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorMessages(t *testing.T) {
	testCases := []struct {
		err      error
		expected string
	}{
		{
			err:      &ErrAuthentication{Detail: "Invalid token or expired token."},
			expected: "could not authenticate the request: Invalid token or expired token.",
		},
		{
			err:      &ErrAuthorization{Detail: "User no longer exist"},
			expected: "the request is not authorized: User no longer exist",
		},
		{
			err:      &ErrBadRequest{Detail: "Invalid password"},
			expected: "bad request: Invalid password",
		},
		{
			err:      &ErrNotFound{Detail: "File not found"},
			expected: "not found: File not found",
		},
		{
			err:      &ErrConflict{Detail: "Account already exist"},
			expected: "conflict: Account already exist",
		},
		{
			err:      &ErrInternalServer{Detail: "whatever"},
			expected: "an internal server error occurred",
		},
	}
	for _, testCase := range testCases {
		require.Equal(t, testCase.expected, testCase.err.Error())
	}
}

func TestErrorDetail(t *testing.T) {
	require.Equal(
		t,
		"Invalid password",
		errorDetail(&ErrBadRequest{Detail: "Invalid password"}),
	)
	// Detail survives wrapping
	require.Equal(
		t,
		"Invalid password",
		errorDetail(
			errors.Wrap(&ErrBadRequest{Detail: "Invalid password"}, "error logging in"),
		),
	)
	// Transport-level errors carry no server message
	require.Empty(t, errorDetail(errors.New("connection refused")))
	require.Empty(t, errorDetail(nil))
}
