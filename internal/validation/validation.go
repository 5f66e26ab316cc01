// Package validation holds the shared validator and input sanitizing helpers.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/storage"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Report fields by their json (or yaml) name so messages read "text is required".
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "yaml"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return strings.ToLower(f.Name)
	})

	if err := Validate.RegisterValidation("priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("datekey", validateDateKey); err != nil {
		panic(fmt.Sprintf("failed to register datekey validator: %v", err))
	}
}

// validatePriority accepts the four priority levels.
func validatePriority(fl validator.FieldLevel) bool {
	return storage.Priority(fl.Field().String()).Valid()
}

// validateDateKey accepts canonical YYYY-MM-DD keys.
func validateDateKey(fl validator.FieldLevel) bool {
	return datekey.Valid(fl.Field().String())
}

// Struct validates v and turns the first failure into a readable error.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return describe(verrs[0])
}

func describe(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Errorf("too many %s (max %s)", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Errorf("%s too long (max %s)", field, fe.Param())
		}
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "priority":
		return fmt.Errorf("invalid priority: must be urgent, high, medium, or low")
	case "datekey":
		return fmt.Errorf("invalid %s %q (want YYYY-MM-DD)", field, fe.Value())
	case "oneof":
		return fmt.Errorf("invalid %s %q (want one of: %s)", field, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexcolor":
		return fmt.Errorf("invalid %s %q (want #RRGGBB)", field, fe.Value())
	default:
		return fmt.Errorf("invalid %s", field)
	}
}

// SanitizeText trims whitespace and removes control characters.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// SanitizeLine is SanitizeText for single-line fields: newlines and tabs go too.
func SanitizeLine(text string) string {
	text = SanitizeText(text)
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		return r
	}, text))
}
