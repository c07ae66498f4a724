package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/erp/posprint/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes gin's binding validator report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	return name
}

// ValidationDetails converts validator errors into response details. It
// returns nil when err holds no validation errors.
func ValidationDetails(err error) []dto.ValidationDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fieldPath(fe), Message: describe(fe)}
	}
	return details
}

// HandleValidationError answers 400 with the failing fields
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.Invalid("Request validation failed", c.GetString(RequestIDKey), ValidationDetails(err)))
}

// fieldPath drops the root struct name from the namespace, so nested
// document fields read "document.number" rather than "Number".
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

var tagMessages = map[string]func(fe validator.FieldError) string{
	"required": func(validator.FieldError) string { return "This field is required" },
	"uuid":     func(validator.FieldError) string { return "Invalid UUID format" },
	"dive":     func(validator.FieldError) string { return "Invalid list entry" },
	"oneof":    func(fe validator.FieldError) string { return "Must be one of: " + fe.Param() },
	"min":      func(fe validator.FieldError) string { return "Must be at least " + fe.Param() + lengthUnit(fe) },
	"max":      func(fe validator.FieldError) string { return "Must be at most " + fe.Param() + lengthUnit(fe) },
	"gt":       func(fe validator.FieldError) string { return "Must be greater than " + fe.Param() },
	"gte":      func(fe validator.FieldError) string { return "Must be greater than or equal to " + fe.Param() },
	"lte":      func(fe validator.FieldError) string { return "Must be less than or equal to " + fe.Param() },
	"codepage": func(validator.FieldError) string { return "Unsupported code page" },
}

func describe(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg(fe)
	}
	return "Invalid value"
}

// lengthUnit qualifies min and max on strings, which count characters
func lengthUnit(fe validator.FieldError) string {
	if fe.Kind() == reflect.String {
		return " characters"
	}
	return ""
}
