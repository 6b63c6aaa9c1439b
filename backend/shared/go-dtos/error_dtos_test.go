package dtos

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"kind" validate:"oneof=a b"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := validator.New()
	err := v.Struct(sample{Email: "nope", Kind: "c"})
	require.Error(t, err)

	details := FormatValidationErrors(err.(validator.ValidationErrors))
	require.Len(t, details, 2)
	require.Equal(t, "Email", details[0].Field)
	require.Equal(t, "validation_email", details[0].Code)
	require.Equal(t, "validation_oneof", details[1].Code)
	require.Contains(t, details[1].Message, "[a b]")
}
