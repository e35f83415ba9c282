package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestAppError_StatusAndCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		code   codes.Code
	}{
		{name: "validation", err: Validation("make is required"), status: http.StatusBadRequest, code: codes.InvalidArgument},
		{name: "invalid_bid", err: InvalidBid("too low"), status: http.StatusBadRequest, code: codes.FailedPrecondition},
		{name: "not_found", err: NotFound("auction not found"), status: http.StatusNotFound, code: codes.NotFound},
		{name: "conflict", err: Conflict("taken"), status: http.StatusConflict, code: codes.AlreadyExists},
		{name: "internal", err: Internal("boom"), status: http.StatusInternalServerError, code: codes.Internal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.status, tc.err.StatusCode())
			require.Equal(t, tc.code, tc.err.GRPCCode())
		})
	}
}

func TestFrom_WrapsUnknownErrors(t *testing.T) {
	cause := errors.New("disk on fire")
	appErr := From(cause)

	require.Equal(t, KindInternal, appErr.Kind())
	require.Equal(t, "internal error", appErr.Message())
	require.ErrorIs(t, appErr, cause)
}

func TestFrom_PreservesAppErrors(t *testing.T) {
	original := NotFound("vehicle not found", WithDetail("id", 7))
	wrapped := fmt.Errorf("handler: %w", original)

	appErr := From(wrapped)
	require.Same(t, original, appErr)
	require.Equal(t, 7, appErr.Details()["id"])
	require.True(t, Is(wrapped, KindNotFound))
	require.False(t, Is(wrapped, KindConflict))
}

func TestNilAppError(t *testing.T) {
	var appErr *AppError
	require.Equal(t, "<nil>", appErr.Error())
	require.Equal(t, KindInternal, appErr.Kind())
	require.Nil(t, From(nil))
}
