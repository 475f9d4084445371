package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// RequestValidator checks request shapes before any package is touched
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator that reports json field names
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Validate returns an InvalidRequestShape error naming the first offending field
func (r *RequestValidator) Validate(req interface{}) error {
	err := r.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return entities.NewInvalidRequest("", err.Error())
	}
	first := verrs[0]
	field := fieldPath(first.Namespace())
	return entities.NewInvalidRequest(field, message(field, first.Tag(), first.Param()))
}

// fieldPath drops the struct name from a validator namespace:
// "GenerateRequest.slides[0].title" becomes "slides[0].title"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "excludesall":
		return fmt.Sprintf("%s must not contain any of %q", field, param)
	case "numeric":
		return fmt.Sprintf("%s must be a placeholder index", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// checkTemplateID rejects identifiers that could resolve outside the templates directory
func checkTemplateID(id string) error {
	if id == "" {
		return entities.NewInvalidRequest("template_id", "template_id is required")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") || strings.HasPrefix(id, ".") {
		return entities.NewInvalidRequest("template_id", fmt.Sprintf("invalid template id %q", id))
	}
	return nil
}
