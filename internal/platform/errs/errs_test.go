package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	assert.Equal(t, "bad input", (&AppError{Kind: InvalidInput, Message: "bad input"}).Error())
	assert.Equal(t, "could not fetch: dial tcp: connection refused",
		(&AppError{Kind: FetchFailed, Message: "could not fetch", Cause: cause}).Error())
	assert.Equal(t, cause.Error(),
		(&AppError{Kind: FetchFailed, Message: cause.Error(), Cause: cause}).Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root")
	err := error(&AppError{Kind: Unknown, Message: "wrapped", Cause: cause})

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "invalid_input", InvalidInput.String())
	assert.Equal(t, "fetch_failed", FetchFailed.String())
}
