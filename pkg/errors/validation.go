package errors

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the shared validator. Field names in messages use
// the json tag so they match what the API reports.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
			return tickerRegex.MatchString(fl.Field().String())
		})
	})
	return validate
}

// tickerRegex matches symbols the platform accepts: letters and digits only.
var tickerRegex = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)

// ValidateStruct runs the `validate` struct tags on v and converts failures
// into a single *Error with ErrCodeInvalidInput. The message lists every
// failing field in declaration order.
func ValidateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Wrap(ErrCodeInvalidInput, err, "invalid input")
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return New(ErrCodeInvalidInput, "%s", strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "eth_addr":
		return fmt.Sprintf("%s must be a 0x-prefixed 20-byte hex address", field)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "ticker":
		return fmt.Sprintf("%s must be 1-20 letters or digits", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

var (
	addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	txHashRegex  = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// ValidateAddress checks that s is a 0x-prefixed 20-byte hex address.
// Checksums are not enforced; the chain accepts any casing.
func ValidateAddress(field, s string) error {
	if s == "" {
		return New(ErrCodeInvalidAddress, "%s cannot be empty", field)
	}
	if !addressRegex.MatchString(s) {
		return New(ErrCodeInvalidAddress, "%s is not a valid address: %q", field, s)
	}
	return nil
}

// ValidateTxHash checks that s is a 0x-prefixed 32-byte hex hash.
func ValidateTxHash(s string) error {
	if !txHashRegex.MatchString(s) {
		return New(ErrCodeInvalidInput, "not a valid transaction hash: %q", s)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidatePathSegment validates an identifier that is interpolated into a
// request path (match IDs, post IDs). It rejects empty values, control
// characters and path separators.
func ValidatePathSegment(field, s string) error {
	if s == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}
	if len(s) > 256 {
		return New(ErrCodeInvalidInput, "%s too long (max 256 characters)", field)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	if strings.ContainsAny(s, "/\\") || strings.Contains(s, "..") {
		return New(ErrCodeInvalidInput, "%s contains invalid characters", field)
	}
	return nil
}
