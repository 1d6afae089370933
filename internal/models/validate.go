// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata per type.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report form field names ("title") instead of Go field names ("Title").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationError describes the first invalid field of an input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks a post's editable fields.
func (in *PostInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	return toValidationError(validate.Struct(in))
}

// Validate checks a category's editable fields.
func (in *CategoryInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	return toValidationError(validate.Struct(in))
}

// ValidateTagName checks a single tag name.
func ValidateTagName(name string) error {
	err := validate.Var(strings.TrimSpace(name), fmt.Sprintf("required,max=%d", maxTagNameLen))
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: "tags", Message: message("tag", verrs[0])}
	}
	return err
}

// toValidationError converts validator output into a single ValidationError.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()
	// Slice elements are reported as "tags[2]".
	if i := strings.IndexByte(field, '['); i > 0 {
		field = field[:i]
	}
	label := field
	if field == "tags" {
		label = "tag"
	}
	return &ValidationError{Field: field, Message: message(label, fe)}
}

func message(label string, fe validator.FieldError) string {
	label = strings.ToUpper(label[:1]) + label[1:]
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s is too long (max %s characters).", label, fe.Param())
	default:
		return label + " is invalid."
	}
}
