package verificationservice

import (
	"errors"
	"fmt"
	"strings"

	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
	"github.com/go-playground/validator/v10"
)

var fieldLabels = map[string]string{
	"CelsiusHandle": "Pseudo Celsius",
	"Sponsor":       "Parrain",
	"Email":         "Adresse email",
}

func validateSubmission(v *validator.Validate, sub verificationdomain.Submission) error {
	err := v.Struct(sub)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", verificationdomain.ErrInvalidSubmission, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fieldErrorMessage(fe))
	}
	return fmt.Errorf("%w: %s", verificationdomain.ErrInvalidSubmission, strings.Join(messages, "; "))
}

func fieldErrorMessage(fe validator.FieldError) string {
	field, ok := fieldLabels[fe.Field()]
	if !ok {
		field = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s est obligatoire", field)
	case "email":
		return fmt.Sprintf("%s doit être une adresse email valide", field)
	case "max":
		return fmt.Sprintf("%s ne doit pas dépasser %s caractères", field, fe.Param())
	default:
		return fmt.Sprintf("%s n'est pas valide", field)
	}
}

// ValidationMessage extracts the user-facing part of an ErrInvalidSubmission error.
func ValidationMessage(err error) string {
	msg := err.Error()
	prefix := verificationdomain.ErrInvalidSubmission.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
