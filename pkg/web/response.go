// Package web defines common components for a web application.
package web

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	AccessToken          string     `json:"access_token,omitempty"`
	AccessTokenExpiresAt *time.Time `json:"access_token_expires_at,omitempty"`
	Data                 any        `json:"data,omitempty"`
	Error                string     `json:"error,omitempty"`
}

// Error wraps a given err into json friendly response.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg turns validation errors into a single readable message.
func GetErrorMsg(ve validator.ValidationErrors) string {
	msgs := make([]string, 0, len(ve))

	for _, fe := range ve {
		msgs = append(msgs, fieldErrorMsg(fe))
	}

	return strings.Join(msgs, "; ")
}

func fieldErrorMsg(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s field is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s field must be at least %s characters long", field, fe.Param())
		}

		return fmt.Sprintf("%s field must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s field must be at most %s characters long", field, fe.Param())
		}

		return fmt.Sprintf("%s field must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s field must be greater than %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s field must be a valid email", field)
	case "alphanum":
		return fmt.Sprintf("%s field must contain only letters and numbers", field)
	case "accounttype":
		return fmt.Sprintf("%s field must be a supported account type", field)
	}

	return fmt.Sprintf("%s field is invalid", field)
}
