package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"mpesa-gateway/internal/common/enum"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	val      *validator.Validate
	once     sync.Once
	setupErr error

	msisdnPattern    = regexp.MustCompile(`^254(7|1)\d{8}$`)
	shortCodePattern = regexp.MustCompile(`^\d{5,7}$`)
)

var validationMessages = map[string]string{
	"required":  "is required",
	"url":       "must be a valid URL",
	"number":    "must be a number",
	"oneof":     "must be one of the allowed values: %s",
	"email":     "must be a valid email address",
	"min":       "must be greater than or equal to %s",
	"max":       "must be less than or equal to %s",
	"len":       "must have the exact length of %s",
	"gt":        "must be greater than %s",
	"gte":       "must be greater than or equal to %s",
	"lt":        "must be less than %s",
	"lte":       "must be less than or equal to %s",
	"enum":      "must be one of the allowed enum values: %s",
	"msisdn":    "must be a phone number in the 2547XXXXXXXX or 2541XXXXXXXX format",
	"shortcode": "must be a 5 to 7 digit business short code",
}

// Setup builds the shared validator and registers the custom tags on gin's
// binding engine as well. Calling it more than once is harmless.
func Setup() error {
	once.Do(func() {
		setupErr = setup()
	})
	return setupErr
}

func setup() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := registerValidations(v); err != nil {
		return fmt.Errorf("failed to register custom validations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := registerValidations(engine); err != nil {
			return fmt.Errorf("failed to register custom validations in Gin engine: %w", err)
		}
	} else {
		return fmt.Errorf("failed to get validation engine")
	}

	val = v
	return nil
}

func registerValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("enum", enum.ValidateEnum); err != nil {
		return fmt.Errorf("failed to register enum validation: %w", err)
	}
	if err := v.RegisterValidation("msisdn", validateMsisdn); err != nil {
		return fmt.Errorf("failed to register msisdn validation: %w", err)
	}
	if err := v.RegisterValidation("shortcode", validateShortCode); err != nil {
		return fmt.Errorf("failed to register shortcode validation: %w", err)
	}
	return nil
}

func validateMsisdn(fl validator.FieldLevel) bool {
	return msisdnPattern.MatchString(fl.Field().String())
}

func validateShortCode(fl validator.FieldLevel) bool {
	return shortCodePattern.MatchString(fl.Field().String())
}

// Error is returned by Validate when the payload breaks a rule.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validate(payload interface{}) error {
	if err := Setup(); err != nil {
		return err
	}
	if val == nil {
		return errors.New("validator is not initialised")
	}

	if err := val.Struct(payload); err != nil {
		return &Error{Message: "Validation failed: " + parsingErrorValidate(err)}
	}

	return nil
}

func parsingErrorValidate(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		var sb strings.Builder
		for _, e := range errs {
			msg := validationMessages[e.Tag()]
			switch e.Tag() {
			case "enum":
				msg = fmt.Sprintf(msg, e.Type())
			default:
				if strings.Contains(msg, "%s") {
					msg = fmt.Sprintf(msg, e.Param())
				}
			}
			sb.WriteString(fmt.Sprintf("%s: %s %s", e.Namespace(), e.Field(), msg))
			sb.WriteString(", ")
		}
		return strings.TrimSuffix(sb.String(), ", ")
	}
	return err.Error()
}
