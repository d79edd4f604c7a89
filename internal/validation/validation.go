// Package validation holds the engine's shared struct validator, with
// English messages for every failed constraint.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Service pairs the validator with its translator.
type Service struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

// regionPattern matches a state or territory code, or ALL.
var regionPattern = regexp.MustCompile(`^([A-Z]{2,3}|ALL)$`)

// IsRegion reports whether s is a well-formed region code.
func IsRegion(s string) bool { return regionPattern.MatchString(s) }

var (
	once sync.Once
	svc  *Service
)

// Get returns the validator singleton, initialising it on first use.
func Get() *Service {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their file or wire names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"yaml", "json"} {
				tag := fld.Tag.Get(key)
				if idx := strings.Index(tag, ","); idx >= 0 {
					tag = tag[:idx]
				}
				if tag != "" && tag != "-" {
					return tag
				}
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
			return IsRegion(fl.Field().String())
		})
		_ = v.RegisterTranslation("region", trans,
			func(ut ut.Translator) error {
				return ut.Add("region", "{0} must be a two or three letter region code or ALL", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T("region", fe.Field())
				return msg
			})

		svc = &Service{Validator: v, Translator: trans}
	})
	return svc
}

// FieldError is one failed constraint.
type FieldError struct {
	Field   string // namespaced, e.g. "Rule.observe"
	Tag     string
	Message string
}

// Error lists every failed constraint of one struct.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Struct validates v. Constraint failures are returned as *Error; other
// failures, such as a nil or non-struct argument, are returned as is.
func Struct(v any) error {
	s := Get()
	err := s.Validator.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &Error{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		out.Fields[i] = FieldError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Message: fe.Translate(s.Translator),
		}
	}
	return out
}
