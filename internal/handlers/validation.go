package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldIssue describes one failed binding rule on a request field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors flattens validator output into field/message pairs
// suitable for a JSON error response. Non-validator errors yield nil.
func ParseValidationErrors(err error) []FieldIssue {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{Field: fe.Field(), Message: issueMessage(fe)})
	}
	return issues
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
