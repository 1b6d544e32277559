package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	// Format validation errors
	var messages []string
	for _, err := range err.(validator.ValidationErrors) {
		field := strings.ToLower(err.Field())
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			messages = append(messages, field+" is required")
		case "min":
			messages = append(messages, field+" must be at least "+param+" characters")
		case "max":
			messages = append(messages, field+" must be at most "+param+" characters")
		case "email":
			messages = append(messages, field+" must be a valid email")
		case "gte":
			messages = append(messages, field+" must be at least "+param)
		case "lte":
			messages = append(messages, field+" must be at most "+param)
		case "oneof":
			messages = append(messages, field+" must be one of: "+param)
		default:
			messages = append(messages, field+" is invalid")
		}
	}

	return errors.New(strings.Join(messages, ", "))
}
