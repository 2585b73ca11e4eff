package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describe un campo inválido en la respuesta 400.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var fieldMessages = map[string]string{
	"email.required":    "Valid email required",
	"email.email":       "Valid email required",
	"password.required": "Password required",
	"password.min":      "Min 8 chars",
	"password.max":      "Max 72 chars",
	"name.min":          "Name must not be empty",
	"name.max":          "Max 100 chars",
}

// fieldErrors traduce errores del validador de gin a una lista por campo.
// Devuelve false si err no es un error de validación (p. ej. JSON malformado).
func fieldErrors(err error) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		msg, ok := fieldMessages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out = append(out, FieldError{Field: field, Message: msg})
	}
	return out, true
}
