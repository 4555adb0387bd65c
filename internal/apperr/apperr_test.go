package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aegis-admin/aegis-admin/internal/apperr"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind apperr.Kind
	}{
		{"unauthenticated", apperr.Unauthenticated(), apperr.KindUnauthenticated},
		{"forbidden", apperr.Forbidden("viewers may not delete users"), apperr.KindForbidden},
		{"validation", apperr.Validation(map[string]string{"email": "Invalid email format"}), apperr.KindValidation},
		{"not found", apperr.NotFound("user"), apperr.KindNotFound},
		{"invalid credentials", apperr.InvalidCredentials(), apperr.KindInvalidCredentials},
		{"timeout", apperr.Timeout("users.list"), apperr.KindTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, apperr.KindOf(tc.err))
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("list users: %w", apperr.NotFound("user"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestKindOfForeign(t *testing.T) {
	assert.Equal(t, apperr.Kind(""), apperr.KindOf(errors.New("plain")))
	assert.Nil(t, apperr.FieldsOf(errors.New("plain")))
}

func TestValidationCarriesFields(t *testing.T) {
	err := apperr.Validation(map[string]string{"name": "Name is required"})
	assert.Equal(t, "Name is required", apperr.FieldsOf(err)["name"])
	assert.Equal(t, "validation failed", err.Error())
}
