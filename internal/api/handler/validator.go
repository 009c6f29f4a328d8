package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

var fieldLabels = map[string]string{
	"email":    "L'email",
	"password": "Le mot de passe",
}

// fieldError converts a single FieldError into the message shown on the
// login form.
func fieldError(fe validator.FieldError) string {
	field, ok := fieldLabels[strings.ToLower(fe.Field())]
	if !ok {
		field = "Le champ " + strings.ToLower(fe.Field())
	}
	switch fe.Tag() {
	case "required":
		return field + " est obligatoire"
	case "email":
		return field + " doit être une adresse valide"
	case "max":
		return fmt.Sprintf("%s ne doit pas dépasser %s caractères", field, fe.Param())
	default:
		return fmt.Sprintf("%s est invalide (%s)", field, fe.Tag())
	}
}
