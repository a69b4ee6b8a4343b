package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "invalid amount: must be positive", Invalid("amount", "must be positive").Error())
	assert.Equal(t, "invalid input: empty", (&ValidationError{Reason: "empty"}).Error())
}

func TestStorage_WrapsAndUnwraps(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Storage("append entry", cause)

	assert.True(t, IsStorage(err))
	assert.False(t, IsValidation(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "append entry")
}

func TestStorage_NilPassesThrough(t *testing.T) {
	assert.NoError(t, Storage("noop", nil))
}

func TestStorage_DoesNotDoubleWrap(t *testing.T) {
	inner := Storage("inner", errors.New("boom"))
	outer := Storage("outer", fmt.Errorf("context: %w", inner))

	var se *StorageError
	assert.True(t, errors.As(outer, &se))
	assert.Equal(t, "inner", se.Op)
}

func TestIsValidation_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("record intake: %w", Invalid("player", "unknown participant"))
	assert.True(t, IsValidation(err))
}
