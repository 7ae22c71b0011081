package errors

import (
	"fmt"
	"net/http"
	"testing"

	"goentropy/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty input", core.NewEmptyInputError("file"), http.StatusBadRequest},
		{"invalid parameter", core.NewInvalidParameterError("count", "too big"), http.StatusBadRequest},
		{"invalid length", core.NewInvalidLengthError(9000, 8160), http.StatusBadRequest},
		{"unsupported format", core.NewUnsupportedFormatError("text", nil), http.StatusBadRequest},
		{"insufficient entropy", core.NewInsufficientEntropyError(32, 3), http.StatusTooEarly},
		{"pool overflow", core.NewPoolOverflowError(10, 5), http.StatusRequestEntityTooLarge},
		{"body over limit", fmt.Errorf("multipart: NextPart: %w", &http.MaxBytesError{Limit: 128}), http.StatusRequestEntityTooLarge},
		{"payload too large", PayloadTooLarge(core.NewInvalidLengthError(100, 64)), http.StatusRequestEntityTooLarge},
		{"wrapped", fmt.Errorf("decode a.txt: %w", core.NewEmptyInputError("x")), http.StatusBadRequest},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrapKeepsCode(t *testing.T) {
	err := Wrap(ConfigInvalid("PORT is required"), "configuration validation failed")
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Contains(t, err.Error(), "PORT is required")

	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Equal(t, CodeInternalError, GetCode(Wrap(fmt.Errorf("boom"), "ctx")))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestFromDomain(t *testing.T) {
	app := FromDomain(core.NewPoolOverflowError(1, 0))
	assert.Equal(t, CodePoolOverflow, app.Code)
	assert.ErrorIs(t, app, core.ErrPoolOverflow)
	assert.Nil(t, FromDomain(nil))
}

func TestFromDomain_MaxBytes(t *testing.T) {
	app := FromDomain(fmt.Errorf("read form: %w", &http.MaxBytesError{Limit: 2048}))
	assert.Equal(t, CodePayloadTooLarge, app.Code)
	assert.ErrorIs(t, app, core.ErrInvalidLength)
	assert.Contains(t, app.Error(), "body exceeds 2048 bytes")
}
