package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK(t *testing.T) {
	resp := OK()
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"user_uid": "uid-1"})
	assert.Equal(t, StatusOK, resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something broke")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email    string `validate:"required,email"`
		Username string `validate:"required,alphanum"`
	}

	err := validator.New().Struct(req{Email: "not-an-email", Username: ""})
	require.Error(t, err)
	validateErrs := err.(validator.ValidationErrors)

	resp := ValidationError(validateErrs)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "Email")
	assert.Contains(t, resp.Error, "Username")
}
