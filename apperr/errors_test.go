package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("checkout: %w", Validation("name", MsgFieldRequired))

	assert.True(t, Is(err, KindValidation))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
	assert.Equal(t, "name", FieldOf(err))
	assert.Equal(t, MsgFieldRequired, PublicMessage(err))
}

func TestPersistenceHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Persistence("insert order", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.Equal(t, MsgPersistence, PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStatusMapping(t *testing.T) {
	cases := map[error]int{
		NotFound(MsgOrderNotFound):        http.StatusNotFound,
		Conflict(MsgBadTransition):        http.StatusConflict,
		Unauthorized(MsgUnauthorized):     http.StatusUnauthorized,
		errors.New("something unexpected"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
	assert.False(t, Is(nil, KindInternal))
}
