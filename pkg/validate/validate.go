package validate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const defaultMessage = "Invalid value."

// FieldErrors maps a json field name to its messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], " "))
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) Add(field, msg string) FieldErrors {
	fe[field] = append(fe[field], msg)
	return fe
}

type MessageFunc func(fe validator.FieldError) string

// Rule registers a custom tag together with the message reported when it fails.
type Rule struct {
	Tag     string
	Fn      validator.Func
	Message MessageFunc
}

type CustomValidator struct {
	validator *validator.Validate
	messages  map[string]MessageFunc
}

func NewCustomValidator(rules ...Rule) *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	cv := &CustomValidator{
		validator: v,
		messages: map[string]MessageFunc{
			"required": func(validator.FieldError) string { return "This field is required." },
			"notblank": func(validator.FieldError) string { return "This field may not be blank." },
			"max": func(fe validator.FieldError) string {
				return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
			},
			"min": func(fe validator.FieldError) string {
				return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
			},
		},
	}
	rules = append([]Rule{{Tag: "notblank", Fn: notBlank}}, rules...)
	for _, r := range rules {
		// registration only fails on an empty tag or nil func
		_ = v.RegisterValidation(r.Tag, r.Fn)
		if r.Message != nil {
			cv.messages[r.Tag] = r.Message
		}
	}
	return cv
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.fieldErrors(cv.validator.Struct(i))
}

// ValidatePartial validates only the named struct fields (Go field names).
func (cv *CustomValidator) ValidatePartial(i interface{}, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return cv.fieldErrors(cv.validator.StructPartial(i, fields...))
}

func (cv *CustomValidator) fieldErrors(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg := defaultMessage
		if fn, ok := cv.messages[fe.Tag()]; ok {
			msg = fn(fe)
		}
		out.Add(fe.Field(), msg)
	}
	return out
}

func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(f.String()) != ""
}
