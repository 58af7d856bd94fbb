package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	errDup := Conflict("already checked in")
	wrapped := fmt.Errorf("failed to check in: %w", errDup)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, errDup))
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsState(wrapped))
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestValidationfKeepsSentinel(t *testing.T) {
	errInvalid := Validation("invalid rule")

	err := Validationf(errInvalid, "rule %q has negative value", "HRA")

	assert.True(t, errors.Is(err, errInvalid))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, `rule "HRA" has negative value`, MessageOf(err))
	assert.Equal(t, `rule "HRA" has negative value: invalid rule`, err.Error())
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(NotFound("payrun not found")))
	assert.True(t, IsClientError(Forbidden("nope")))
	assert.False(t, IsClientError(errors.New("db down")))
}
