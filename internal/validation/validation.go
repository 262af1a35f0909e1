// Package validation configures go-playground/validator for request DTOs and turns
// its errors into domain.ValidationError.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"bizadmin/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	hhmmRe   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	semverRe = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)
	permRe   = regexp.MustCompile(`^[a-z0-9-]+\.[a-z0-9-]+$`)
)

var rules = map[string]validator.Func{
	"iana_tz": func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if name == "" {
			return true
		}
		_, err := time.LoadLocation(name)
		return err == nil && name != "Local"
	},
	"hhmm": func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "" || hhmmRe.MatchString(fl.Field().String())
	},
	"date": func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, err := time.Parse(DateLayout, v)
		return err == nil
	},
	"semver": func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "" || semverRe.MatchString(fl.Field().String())
	},
	"perm_code": func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "" || permRe.MatchString(fl.Field().String())
	},
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var (
	once    sync.Once
	initErr error
)

// Register installs the custom rules and JSON field naming on gin's validator.
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			initErr = errors.New("validation: gin validator engine is not go-playground/validator")
			return
		}
		initErr = configure(v)
	})
	return initErr
}

// New returns a standalone validator configured like gin's, reading `binding` tags.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	if err := configure(v); err != nil {
		panic(err)
	}
	return v
}

func configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("validation: register %s: %w", tag, err)
		}
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Translate converts binding and validator errors into a domain.ValidationError.
// Other errors are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		fields := make([]domain.FieldError, 0, len(ves))
		for _, fe := range ves {
			fields = append(fields, domain.FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: message(fe),
			})
		}
		return domain.ValidationError{Msg: "request validation failed", Fields: fields, Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return domain.ValidationError{Msg: "request body is empty", Err: err}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return domain.ValidationError{Msg: "malformed JSON body", Err: err}
	case errors.As(err, &typeErr):
		return domain.ValidationError{
			Msg:    "request validation failed",
			Fields: []domain.FieldError{{Field: typeErr.Field, Rule: "type", Message: "must be a " + typeErr.Type.String()}},
			Err:    err,
		}
	}
	return domain.ValidationError{Msg: err.Error(), Err: err}
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "len":
		if isString {
			return fmt.Sprintf("must be exactly %s characters", fe.Param())
		}
		return "must have length " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "iana_tz":
		return "must be a valid IANA time zone"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "date":
		return "must be a date in YYYY-MM-DD format"
	case "semver":
		return "must be a semantic version (MAJOR.MINOR.PATCH)"
	case "alpha":
		return "must contain only letters"
	case "perm_code":
		return "must look like resource.action"
	case "url":
		return "must be a valid URL"
	case "nefield":
		return "must differ from " + fe.Param()
	}
	return "is invalid"
}
